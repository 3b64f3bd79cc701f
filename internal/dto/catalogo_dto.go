package dto

// Request/response shapes for the reference catalogs. Pure record
// management: uniqueness on natural keys, in-use guard on delete.

// ─── Contratista ─────────────────────────────────────────────────────────────

type ContratistaRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=200"`
	RUC         string  `json:"ruc"          validate:"required,len=11,numeric"`
	Direccion   *string `json:"direccion"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

type ContratistaResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	RUC         string  `json:"ruc"`
	Direccion   *string `json:"direccion"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Activo      bool    `json:"activo"`
}

// ─── EntidadFinanciera ───────────────────────────────────────────────────────

type EntidadFinancieraRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=200"`
	Direccion string `json:"direccion" validate:"required,min=2,max=300"`
}

type EntidadFinancieraResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Activo    bool   `json:"activo"`
}

// ─── TipoMoneda ──────────────────────────────────────────────────────────────

type TipoMonedaRequest struct {
	Nombre  string `json:"nombre"  validate:"required,min=2,max=50"`
	Simbolo string `json:"simbolo" validate:"required,min=1,max=5"`
}

type TipoMonedaResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Simbolo string `json:"simbolo"`
}

// ─── TipoCarta ───────────────────────────────────────────────────────────────

type TipoCartaRequest struct {
	Descripcion string `json:"descripcion" validate:"required,min=2,max=200"`
}

type TipoCartaResponse struct {
	ID          string `json:"id"`
	Descripcion string `json:"descripcion"`
}

// ─── ObjetoGarantia ──────────────────────────────────────────────────────────

type ObjetoGarantiaRequest struct {
	Descripcion string  `json:"descripcion" validate:"required,min=2,max=300"`
	CUI         *string `json:"cui" validate:"omitempty,max=20,numeric"`
}

type ObjetoGarantiaResponse struct {
	ID          string  `json:"id"`
	Descripcion string  `json:"descripcion"`
	CUI         *string `json:"cui"`
}

// ─── EstadoGarantia ──────────────────────────────────────────────────────────

type EstadoGarantiaResponse struct {
	ID               string `json:"id"`
	Nombre           string `json:"nombre"`
	EsActivo         bool   `json:"es_activo"`
	RequiereTerminos bool   `json:"requiere_terminos"`
}
