package service

import "time"

// Clasificación de vencimiento de una carta fianza abierta.
const (
	ClaseVencida   = "vencida"
	ClasePorVencer = "por_vencer"
	ClaseVigente   = "vigente"
)

// DiasAlertaVencimiento is the width of the por-vencer band: a carta whose
// fecha_fin is within this many days gets the warning badge.
const DiasAlertaVencimiento = 15

const fechaLayout = "2006-01-02"

// diasHasta returns fechaFin - hoy in whole calendar days. Time-of-day is
// stripped from both sides first, so the result is exact regardless of the
// hour either timestamp carries.
func diasHasta(fechaFin, hoy time.Time) int {
	f := time.Date(fechaFin.Year(), fechaFin.Month(), fechaFin.Day(), 0, 0, 0, 0, time.UTC)
	h := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC)
	return int(f.Sub(h).Hours() / 24)
}

// ClasificarVencimiento classifies a carta fianza by its validity end date
// against a cut-off date. Pure function, no I/O. The returned count is días
// vencidos (positive) for vencida, and días restantes for por_vencer and
// vigente.
//
// A carta whose fecha_fin equals the cut-off ("vence hoy") is por_vencer
// with 0 días restantes: it is still callable that day, but the operator
// needs the warning more than anyone.
func ClasificarVencimiento(fechaFin, hoy time.Time) (string, int) {
	dias := diasHasta(fechaFin, hoy)
	switch {
	case dias < 0:
		return ClaseVencida, -dias
	case dias <= DiasAlertaVencimiento:
		return ClasePorVencer, dias
	default:
		return ClaseVigente, dias
	}
}
