package handler

// Handlers for the reference catalogs. All share the same shape: bind,
// delegate, map domain errors (404 / 409 en-uso / 409 duplicado).

import (
	"net/http"

	"sigcf/internal/apierror"
	"sigcf/internal/dto"
	"sigcf/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Contratistas ─────────────────────────────────────────────────────────────

type ContratistasHandler struct{ svc service.ContratistaService }

func NewContratistasHandler(svc service.ContratistaService) *ContratistasHandler {
	return &ContratistasHandler{svc: svc}
}

func (h *ContratistasHandler) Crear(c *gin.Context) {
	var req dto.ContratistaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContratistasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar contratistas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratistasHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratistasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ContratistaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContratistasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Entidades financieras ────────────────────────────────────────────────────

type EntidadesHandler struct{ svc service.EntidadFinancieraService }

func NewEntidadesHandler(svc service.EntidadFinancieraService) *EntidadesHandler {
	return &EntidadesHandler{svc: svc}
}

func (h *EntidadesHandler) Crear(c *gin.Context) {
	var req dto.EntidadFinancieraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EntidadesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar entidades"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntidadesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EntidadFinancieraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntidadesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Tipos de moneda ──────────────────────────────────────────────────────────

type TiposMonedaHandler struct{ svc service.TipoMonedaService }

func NewTiposMonedaHandler(svc service.TipoMonedaService) *TiposMonedaHandler {
	return &TiposMonedaHandler{svc: svc}
}

func (h *TiposMonedaHandler) Crear(c *gin.Context) {
	var req dto.TipoMonedaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TiposMonedaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tipos de moneda"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiposMonedaHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TipoMonedaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiposMonedaHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Tipos de carta ───────────────────────────────────────────────────────────

type TiposCartaHandler struct{ svc service.TipoCartaService }

func NewTiposCartaHandler(svc service.TipoCartaService) *TiposCartaHandler {
	return &TiposCartaHandler{svc: svc}
}

func (h *TiposCartaHandler) Crear(c *gin.Context) {
	var req dto.TipoCartaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TiposCartaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tipos de carta"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiposCartaHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TipoCartaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TiposCartaHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Objetos de garantía ──────────────────────────────────────────────────────

type ObjetosHandler struct{ svc service.ObjetoGarantiaService }

func NewObjetosHandler(svc service.ObjetoGarantiaService) *ObjetosHandler {
	return &ObjetosHandler{svc: svc}
}

func (h *ObjetosHandler) Crear(c *gin.Context) {
	var req dto.ObjetoGarantiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ObjetosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar objetos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ObjetoGarantiaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Estados ──────────────────────────────────────────────────────────────────

type EstadosHandler struct{ svc service.EstadoService }

func NewEstadosHandler(svc service.EstadoService) *EstadosHandler {
	return &EstadosHandler{svc: svc}
}

func (h *EstadosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar estados"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
