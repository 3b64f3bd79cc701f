package handler

import (
	"net/http"
	"strconv"

	"sigcf/internal/apierror"
	"sigcf/internal/dto"
	"sigcf/internal/middleware"
	"sigcf/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GarantiasHandler struct{ svc service.GarantiaService }

func NewGarantiasHandler(svc service.GarantiaService) *GarantiasHandler {
	return &GarantiasHandler{svc: svc}
}

// RegistrarEmision godoc
// @Summary      Registrar emisión de una carta fianza
// @Description  Crea la garantía junto con su primer registro de historial (Emisión). Los términos financieros son obligatorios.
// @Tags         garantias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarEmisionRequest true "Datos de la emisión"
// @Success      201  {object} dto.GarantiaResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/garantias [post]
func (h *GarantiasHandler) RegistrarEmision(c *gin.Context) {
	var req dto.RegistrarEmisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarEmision(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar garantías
// @Tags         garantias
// @Produce      json
// @Security     BearerAuth
// @Param        contratista_id     query string false "Filtrar por contratista"
// @Param        objeto_garantia_id query string false "Filtrar por objeto"
// @Param        page               query int    false "Página (default 1)"
// @Param        limit              query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.GarantiaListResponse
// @Router       /v1/garantias [get]
func (h *GarantiasHandler) Listar(c *gin.Context) {
	var filter dto.GarantiaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar garantias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener garantía con su historial completo
// @Description  El historial viene ordenado cronológicamente; solo el último registro lleva es_ultimo=true.
// @Tags         garantias
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la garantía"
// @Success      200 {object} dto.GarantiaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/garantias/{id} [get]
func (h *GarantiasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerConHistorial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerCierre godoc
// @Summary      Ver el cierre de una garantía devuelta o ejecutada
// @Description  Devuelve el evento terminal y los términos del último registro activo (qué se devolvió o ejecutó).
// @Tags         garantias
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la garantía"
// @Success      200 {object} dto.CierreResponse
// @Failure      409 {object} apierror.APIError "La garantía sigue abierta"
// @Router       /v1/garantias/{id}/cierre [get]
func (h *GarantiasHandler) ObtenerCierre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerCierre(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarTransicion godoc
// @Summary      Registrar renovación, ampliación, reducción, devolución o ejecución
// @Description  Agrega un evento al historial. Solo procede si el último registro es activo; los estados activos exigen términos.
// @Tags         garantias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID de la garantía"
// @Param        body body dto.RegistrarTransicionRequest true "Evento"
// @Success      201 {object} dto.HistorialResponse
// @Failure      409 {object} apierror.APIError "Garantía ya cerrada"
// @Router       /v1/garantias/{id}/transiciones [post]
func (h *GarantiasHandler) RegistrarTransicion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarTransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarTransicion(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EsUltimo godoc
// @Summary      Consultar si un historial es el último de su garantía
// @Description  El frontend lo usa para habilitar/deshabilitar los botones de editar y eliminar.
// @Tags         historiales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del historial"
// @Success      200 {object} dto.EsUltimoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/historiales/{id}/es-ultimo [get]
func (h *GarantiasHandler) EsUltimo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	esUltimo, err := h.svc.EsUltimo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EsUltimoResponse{EsUltimo: esUltimo})
}

// Actualizar godoc
// @Summary      Corregir el último registro del historial
// @Description  Solo el registro más reciente admite correcciones; intentarlo sobre uno anterior responde 409.
// @Tags         historiales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                            true "ID del historial"
// @Param        body body dto.ActualizarHistorialRequest true "Campos a corregir"
// @Success      200 {object} dto.HistorialResponse
// @Failure      409 {object} apierror.APIError "No es el último registro"
// @Router       /v1/historiales/{id} [put]
func (h *GarantiasHandler) Actualizar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarHistorialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUltimo(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar el último registro del historial
// @Description  Deshace el evento más reciente. Si era el único registro, la garantía completa desaparece (garantia_eliminada=true).
// @Tags         historiales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del historial"
// @Success      200 {object} dto.EliminarHistorialResponse
// @Failure      409 {object} apierror.APIError "No es el último registro"
// @Router       /v1/historiales/{id} [delete]
func (h *GarantiasHandler) Eliminar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.EliminarUltimo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
