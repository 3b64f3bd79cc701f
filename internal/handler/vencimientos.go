package handler

import (
	"net/http"
	"time"

	"sigcf/internal/apierror"
	"sigcf/internal/service"

	"github.com/gin-gonic/gin"
)

type VencimientosHandler struct{ svc service.VencimientoService }

func NewVencimientosHandler(svc service.VencimientoService) *VencimientosHandler {
	return &VencimientosHandler{svc: svc}
}

// al parses the optional cut-off date query param, defaulting to today.
func al(c *gin.Context) (time.Time, bool) {
	raw := c.Query("al")
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'al' invalido, formato esperado YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}

// Semaforo godoc
// @Summary      Semáforo de vencimientos
// @Description  Clasifica cada garantía abierta según su fecha de fin: vencida, por vencer (15 días o menos) o vigente.
// @Tags         vencimientos
// @Produce      json
// @Security     BearerAuth
// @Param        al query string false "Fecha de corte YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.SemaforoResponse
// @Router       /v1/garantias/semaforo [get]
func (h *VencimientosHandler) Semaforo(c *gin.Context) {
	corte, ok := al(c)
	if !ok {
		return
	}
	resp, err := h.svc.Semaforo(c.Request.Context(), corte)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el semaforo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Conteo godoc
// @Summary      Conteo del semáforo (widget del dashboard)
// @Tags         vencimientos
// @Produce      json
// @Security     BearerAuth
// @Param        al query string false "Fecha de corte YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.SemaforoConteo
// @Router       /v1/garantias/semaforo/conteo [get]
func (h *VencimientosHandler) Conteo(c *gin.Context) {
	corte, ok := al(c)
	if !ok {
		return
	}
	resp, err := h.svc.Conteo(c.Request.Context(), corte)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el conteo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
