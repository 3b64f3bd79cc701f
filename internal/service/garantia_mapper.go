package service

import (
	"context"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/model"

	"github.com/google/uuid"
)

// semaforoConteoCacheKey caches today's dashboard tally; every history
// mutation drops it so the widget never shows a stale count for long.
const semaforoConteoCacheKey = "semaforo:conteo"

func (s *garantiaService) invalidarConteo(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, semaforoConteoCacheKey).Err()
	}
}

func historialToResponse(h *model.GarantiaHistorial, esUltimo bool) dto.HistorialResponse {
	resp := dto.HistorialResponse{
		ID:                  h.ID,
		GarantiaID:          h.GarantiaID.String(),
		Estado:              h.Estado.Nombre,
		EsActivo:            h.EsActivo,
		EsUltimo:            esUltimo,
		NumeroCarta:         h.NumeroCarta,
		EntidadDireccion:    h.EntidadDireccion,
		FechaEmision:        h.FechaEmision.Format(fechaLayout),
		Monto:               h.Monto,
		DocumentoReferencia: h.DocumentoReferencia,
		Comentarios:         h.Comentarios,
		Archivos:            make([]dto.ArchivoResponse, 0, len(h.Archivos)),
		CreatedAt:           h.CreatedAt.Format(time.RFC3339),
	}
	if h.TipoCarta != nil {
		resp.TipoCarta = &h.TipoCarta.Descripcion
	}
	if h.EntidadFinanciera != nil {
		resp.EntidadFinanciera = &h.EntidadFinanciera.Nombre
	}
	if h.TipoMoneda != nil {
		resp.Moneda = &h.TipoMoneda.Nombre
	}
	if h.FechaInicio != nil {
		f := h.FechaInicio.Format(fechaLayout)
		resp.FechaInicio = &f
	}
	if h.FechaFin != nil {
		f := h.FechaFin.Format(fechaLayout)
		resp.FechaFin = &f
	}
	for _, a := range h.Archivos {
		resp.Archivos = append(resp.Archivos, dto.ArchivoResponse{
			ID:            a.ID.String(),
			NombreArchivo: a.NombreArchivo,
			SubidoPor:     a.SubidoPor.String(),
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

// validarActualizacion runs the cross-field checks for an amend against the
// record as it would look after the change. Status and garantía are fixed;
// only terms, dates, amount, document and comments move.
func validarActualizacion(h *model.GarantiaHistorial, req dto.ActualizarHistorialRequest) error {
	fields := map[string]string{}

	inicio, fin := h.FechaInicio, h.FechaFin
	if req.FechaInicio != nil {
		t, _ := time.Parse(fechaLayout, *req.FechaInicio)
		inicio = &t
	}
	if req.FechaFin != nil {
		t, _ := time.Parse(fechaLayout, *req.FechaFin)
		fin = &t
	}
	if inicio != nil && fin != nil && !fin.After(*inicio) {
		fields["fecha_fin"] = "debe ser posterior a fecha_inicio"
	}
	if req.Monto != nil && !req.Monto.IsPositive() {
		fields["monto"] = "debe ser mayor que cero"
	}

	if len(fields) > 0 {
		return &ValidacionError{Fields: fields}
	}
	return nil
}

// aplicarCambios copies the non-nil request fields onto the historial.
// ID, estado and garantía are never touched.
func aplicarCambios(h *model.GarantiaHistorial, req dto.ActualizarHistorialRequest) {
	if req.NumeroCarta != nil {
		h.NumeroCarta = req.NumeroCarta
	}
	if req.TipoCartaID != nil {
		id := uuid.MustParse(*req.TipoCartaID)
		h.TipoCartaID = &id
	}
	if req.EntidadFinancieraID != nil {
		id := uuid.MustParse(*req.EntidadFinancieraID)
		h.EntidadFinancieraID = &id
	}
	if req.FechaEmision != nil {
		t, _ := time.Parse(fechaLayout, *req.FechaEmision)
		h.FechaEmision = t
	}
	if req.FechaInicio != nil {
		t, _ := time.Parse(fechaLayout, *req.FechaInicio)
		h.FechaInicio = &t
	}
	if req.FechaFin != nil {
		t, _ := time.Parse(fechaLayout, *req.FechaFin)
		h.FechaFin = &t
	}
	if req.TipoMonedaID != nil {
		id := uuid.MustParse(*req.TipoMonedaID)
		h.TipoMonedaID = &id
	}
	if req.Monto != nil {
		h.Monto = req.Monto
	}
	if req.DocumentoReferencia != nil {
		h.DocumentoReferencia = req.DocumentoReferencia
	}
	if req.Comentarios != nil {
		h.Comentarios = req.Comentarios
	}
}
