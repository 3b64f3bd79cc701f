package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// GarantiaFilter is bound from query string of GET /v1/garantias.
type GarantiaFilter struct {
	ContratistaID    *uuid.UUID `form:"contratista_id"`
	ObjetoGarantiaID *uuid.UUID `form:"objeto_garantia_id"`
	Page             int        `form:"page,default=1"   validate:"min=1"`
	Limit            int        `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// TerminosCarta are the financial terms every active event (Emisión,
// Renovación, Ampliación, Reducción) must carry. Dates travel as ISO
// calendar dates; locale formatting is a presentation concern.
type TerminosCarta struct {
	NumeroCarta         string          `json:"numero_carta"          validate:"required,min=1,max=50"`
	TipoCartaID         string          `json:"tipo_carta_id"         validate:"required,uuid"`
	EntidadFinancieraID string          `json:"entidad_financiera_id" validate:"required,uuid"`
	FechaInicio         string          `json:"fecha_inicio"          validate:"required,datetime=2006-01-02"`
	FechaFin            string          `json:"fecha_fin"             validate:"required,datetime=2006-01-02"`
	TipoMonedaID        string          `json:"tipo_moneda_id"        validate:"required,uuid"`
	Monto               decimal.Decimal `json:"monto"                 validate:"required"`
}

type RegistrarEmisionRequest struct {
	ObjetoGarantiaID    string        `json:"objeto_garantia_id" validate:"required,uuid"`
	ContratistaID       string        `json:"contratista_id"     validate:"required,uuid"`
	FechaEmision        string        `json:"fecha_emision"      validate:"required,datetime=2006-01-02"`
	Terminos            TerminosCarta `json:"terminos"           validate:"required"`
	DocumentoReferencia *string       `json:"documento_referencia"`
	Comentarios         *string       `json:"comentarios"`
}

// RegistrarTransicionRequest appends a new event to an open garantía.
// Terminos is required for active estados and ignored for terminal ones
// (Devolución/Ejecución record only the event itself).
type RegistrarTransicionRequest struct {
	Estado              string         `json:"estado"        validate:"required"`
	FechaEmision        string         `json:"fecha_emision" validate:"required,datetime=2006-01-02"`
	Terminos            *TerminosCarta `json:"terminos"`
	DocumentoReferencia *string        `json:"documento_referencia"`
	Comentarios         *string        `json:"comentarios"`
}

// ActualizarHistorialRequest overwrites the mutable fields of the latest
// historial. Nil pointers leave a field untouched; ArchivosEliminar removes
// attachments by id (additions go through the multipart upload endpoint).
type ActualizarHistorialRequest struct {
	NumeroCarta         *string          `json:"numero_carta"          validate:"omitempty,min=1,max=50"`
	TipoCartaID         *string          `json:"tipo_carta_id"         validate:"omitempty,uuid"`
	EntidadFinancieraID *string          `json:"entidad_financiera_id" validate:"omitempty,uuid"`
	FechaEmision        *string          `json:"fecha_emision"         validate:"omitempty,datetime=2006-01-02"`
	FechaInicio         *string          `json:"fecha_inicio"          validate:"omitempty,datetime=2006-01-02"`
	FechaFin            *string          `json:"fecha_fin"             validate:"omitempty,datetime=2006-01-02"`
	TipoMonedaID        *string          `json:"tipo_moneda_id"        validate:"omitempty,uuid"`
	Monto               *decimal.Decimal `json:"monto"`
	DocumentoReferencia *string          `json:"documento_referencia"`
	Comentarios         *string          `json:"comentarios"`
	ArchivosEliminar    []string         `json:"archivos_eliminar" validate:"omitempty,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ArchivoResponse struct {
	ID            string `json:"id"`
	NombreArchivo string `json:"nombre_archivo"`
	SubidoPor     string `json:"subido_por"`
	CreatedAt     string `json:"created_at"`
}

type HistorialResponse struct {
	ID                  int64             `json:"id"`
	GarantiaID          string            `json:"garantia_id"`
	Estado              string            `json:"estado"`
	EsActivo            bool              `json:"es_activo"`
	EsUltimo            bool              `json:"es_ultimo"`
	NumeroCarta         *string           `json:"numero_carta,omitempty"`
	TipoCarta           *string           `json:"tipo_carta,omitempty"`
	EntidadFinanciera   *string           `json:"entidad_financiera,omitempty"`
	EntidadDireccion    *string           `json:"entidad_direccion,omitempty"`
	FechaEmision        string            `json:"fecha_emision"`
	FechaInicio         *string           `json:"fecha_inicio,omitempty"`
	FechaFin            *string           `json:"fecha_fin,omitempty"`
	Moneda              *string           `json:"moneda,omitempty"`
	Monto               *decimal.Decimal  `json:"monto,omitempty"`
	DocumentoReferencia *string           `json:"documento_referencia,omitempty"`
	Comentarios         *string           `json:"comentarios,omitempty"`
	Archivos            []ArchivoResponse `json:"archivos"`
	CreatedAt           string            `json:"created_at"`
}

type GarantiaResponse struct {
	ID          string  `json:"id"`
	Objeto      string  `json:"objeto"`
	ObjetoCUI   *string `json:"objeto_cui,omitempty"`
	Contratista string  `json:"contratista"`
	// Cerrada is true when the latest historial carries a terminal estado.
	Cerrada     bool                `json:"cerrada"`
	Historiales []HistorialResponse `json:"historiales"`
}

type GarantiaListItem struct {
	ID          string `json:"id"`
	Objeto      string `json:"objeto"`
	Contratista string `json:"contratista"`
	CreatedAt   string `json:"created_at"`
}

type GarantiaListResponse struct {
	Data  []GarantiaListItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// CierreResponse is the "qué se devolvió / ejecutó" view of a closed
// garantía: the terminal event plus the terms of the last active record.
type CierreResponse struct {
	Cierre           HistorialResponse `json:"cierre"`
	TerminosCerrados HistorialResponse `json:"terminos_cerrados"`
}

type EsUltimoResponse struct {
	EsUltimo bool `json:"es_ultimo"`
}

type EliminarHistorialResponse struct {
	GarantiaEliminada bool `json:"garantia_eliminada"`
}
