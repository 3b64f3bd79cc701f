package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/model"
	"sigcf/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchivoStorage persists attachment blobs. Guardar returns the path
// (relative to the storage root) under which the blob was written.
type ArchivoStorage interface {
	Guardar(historialID int64, nombre string, contenido io.Reader) (ruta string, err error)
	RutaAbsoluta(ruta string) string
	Eliminar(ruta string) error
}

type ArchivoService interface {
	// Subir attaches a PDF to a historial. Only the latest record of a
	// garantía accepts new attachments.
	Subir(ctx context.Context, usuarioID uuid.UUID, historialID int64, nombre string, contenido io.Reader) (*dto.ArchivoResponse, error)
	Listar(ctx context.Context, historialID int64) ([]dto.ArchivoResponse, error)
	// Descargar returns the attachment metadata and the absolute path of
	// its blob on disk.
	Descargar(ctx context.Context, archivoID uuid.UUID) (*model.ArchivoHistorial, string, error)
	// Eliminar removes an attachment from the latest historial.
	Eliminar(ctx context.Context, archivoID uuid.UUID) error
}

type archivoService struct {
	archivos    repository.ArchivoRepository
	historiales repository.HistorialRepository
	storage     ArchivoStorage
}

func NewArchivoService(
	archivos repository.ArchivoRepository,
	historiales repository.HistorialRepository,
	storage ArchivoStorage,
) ArchivoService {
	return &archivoService{archivos: archivos, historiales: historiales, storage: storage}
}

func (s *archivoService) Subir(ctx context.Context, usuarioID uuid.UUID, historialID int64, nombre string, contenido io.Reader) (*dto.ArchivoResponse, error) {
	if !strings.EqualFold(filepath.Ext(nombre), ".pdf") {
		return nil, nuevaValidacion("archivo", "solo se aceptan archivos PDF")
	}

	h, err := s.historiales.FindByID(ctx, historialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	maxID, err := s.historiales.MaxID(ctx, nil, h.GarantiaID)
	if err != nil {
		return nil, err
	}
	if h.ID != maxID {
		return nil, ErrNoEsUltimo
	}

	ruta, err := s.storage.Guardar(historialID, nombre, contenido)
	if err != nil {
		return nil, err
	}

	archivo := &model.ArchivoHistorial{
		HistorialID:   historialID,
		NombreArchivo: nombre,
		Ruta:          ruta,
		SubidoPor:     usuarioID,
	}
	if err := s.archivos.Create(ctx, archivo); err != nil {
		// Orphaned blob cleanup: metadata insert failed, remove the file.
		_ = s.storage.Eliminar(ruta)
		return nil, err
	}

	resp := archivoToResponse(archivo)
	return &resp, nil
}

func (s *archivoService) Listar(ctx context.Context, historialID int64) ([]dto.ArchivoResponse, error) {
	if _, err := s.historiales.FindByID(ctx, historialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	rows, err := s.archivos.ListByHistorial(ctx, historialID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArchivoResponse, 0, len(rows))
	for i := range rows {
		out = append(out, archivoToResponse(&rows[i]))
	}
	return out, nil
}

func (s *archivoService) Descargar(ctx context.Context, archivoID uuid.UUID) (*model.ArchivoHistorial, string, error) {
	archivo, err := s.archivos.FindByID(ctx, archivoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNoEncontrado
		}
		return nil, "", err
	}
	return archivo, s.storage.RutaAbsoluta(archivo.Ruta), nil
}

func (s *archivoService) Eliminar(ctx context.Context, archivoID uuid.UUID) error {
	archivo, err := s.archivos.FindByID(ctx, archivoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEncontrado
		}
		return err
	}
	h, err := s.historiales.FindByID(ctx, archivo.HistorialID)
	if err != nil {
		return err
	}
	maxID, err := s.historiales.MaxID(ctx, nil, h.GarantiaID)
	if err != nil {
		return err
	}
	if h.ID != maxID {
		return ErrNoEsUltimo
	}

	if err := s.archivos.Delete(ctx, nil, archivoID); err != nil {
		return err
	}
	return s.storage.Eliminar(archivo.Ruta)
}

func archivoToResponse(a *model.ArchivoHistorial) dto.ArchivoResponse {
	return dto.ArchivoResponse{
		ID:            a.ID.String(),
		NombreArchivo: a.NombreArchivo,
		SubidoPor:     a.SubidoPor.String(),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}
