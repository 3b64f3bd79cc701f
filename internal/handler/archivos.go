package handler

import (
	"net/http"
	"strconv"

	"sigcf/internal/apierror"
	"sigcf/internal/middleware"
	"sigcf/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxArchivoBytes caps uploads at 10 MB per PDF.
const maxArchivoBytes = 10 << 20

type ArchivosHandler struct{ svc service.ArchivoService }

func NewArchivosHandler(svc service.ArchivoService) *ArchivosHandler {
	return &ArchivosHandler{svc: svc}
}

// Subir godoc
// @Summary      Adjuntar un PDF al último registro del historial
// @Description  Multipart con campo "archivo". Solo el registro más reciente acepta adjuntos.
// @Tags         archivos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path     int  true "ID del historial"
// @Param        archivo formData file true "PDF escaneado de la carta"
// @Success      201 {object} dto.ArchivoResponse
// @Failure      409 {object} apierror.APIError "No es el último registro"
// @Router       /v1/historiales/{id}/archivos [post]
func (h *ArchivosHandler) Subir(c *gin.Context) {
	historialID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Campo 'archivo' requerido"))
		return
	}
	if fh.Size > maxArchivoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo supera el maximo de 10 MB"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Subir(c.Request.Context(), usuarioID, historialID, fh.Filename, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar adjuntos de un historial
// @Tags         archivos
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del historial"
// @Success      200 {array} dto.ArchivoResponse
// @Router       /v1/historiales/{id}/archivos [get]
func (h *ArchivosHandler) Listar(c *gin.Context) {
	historialID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), historialID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar godoc
// @Summary      Descargar un adjunto
// @Tags         archivos
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del archivo"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/archivos/{id} [get]
func (h *ArchivosHandler) Descargar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	archivo, ruta, err := h.svc.Descargar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(ruta, archivo.NombreArchivo)
}

// Eliminar godoc
// @Summary      Eliminar un adjunto del último registro
// @Tags         archivos
// @Security     BearerAuth
// @Param        id path string true "UUID del archivo"
// @Success      204
// @Failure      409 {object} apierror.APIError "No es el último registro"
// @Router       /v1/archivos/{id} [delete]
func (h *ArchivosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
