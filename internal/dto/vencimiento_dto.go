package dto

import "github.com/shopspring/decimal"

// VencimientoItem is one open garantía classified against a cut-off date.
type VencimientoItem struct {
	GarantiaID        string          `json:"garantia_id"`
	HistorialID       int64           `json:"historial_id"`
	Objeto            string          `json:"objeto"`
	Contratista       string          `json:"contratista"`
	NumeroCarta       *string         `json:"numero_carta,omitempty"`
	EntidadFinanciera *string         `json:"entidad_financiera,omitempty"`
	Moneda            *string         `json:"moneda,omitempty"`
	Monto             decimal.Decimal `json:"monto"`
	FechaFin          string          `json:"fecha_fin"`
	// Dias is días restantes for por_vencer (0 = vence hoy) and días
	// vencidos for vencida; omitted for vigente.
	Dias *int `json:"dias,omitempty"`
}

// SemaforoResponse buckets every open garantía by expiry, as of `Al`.
type SemaforoResponse struct {
	Al        string            `json:"al"` // cut-off date, YYYY-MM-DD
	Vencidas  []VencimientoItem `json:"vencidas"`
	PorVencer []VencimientoItem `json:"por_vencer"`
	Vigentes  []VencimientoItem `json:"vigentes"`
	Conteo    SemaforoConteo    `json:"conteo"`
}

// SemaforoConteo is the dashboard tally; cached in Redis separately from
// the full lists because the dashboard widget polls it frequently.
type SemaforoConteo struct {
	Vencidas  int `json:"vencidas"`
	PorVencer int `json:"por_vencer"`
	Vigentes  int `json:"vigentes"`
}
