package service

// Services for the reference catalogs. All follow the same shape: CRUD with
// a natural-key uniqueness check on create/update (Conflict on duplicate) and
// an in-use guard on delete (a catalog row referenced by any garantía or
// historial cannot be removed).

import (
	"context"
	"errors"

	"sigcf/internal/dto"
	"sigcf/internal/model"
	"sigcf/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Contratista ──────────────────────────────────────────────────────────────

type ContratistaService interface {
	Crear(ctx context.Context, req dto.ContratistaRequest) (*dto.ContratistaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratistaResponse, error)
	Listar(ctx context.Context) ([]dto.ContratistaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ContratistaRequest) (*dto.ContratistaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type contratistaService struct {
	repo repository.ContratistaRepository
}

func NewContratistaService(repo repository.ContratistaRepository) ContratistaService {
	return &contratistaService{repo: repo}
}

func (s *contratistaService) Crear(ctx context.Context, req dto.ContratistaRequest) (*dto.ContratistaResponse, error) {
	if _, err := s.repo.FindByRUC(ctx, req.RUC); err == nil {
		return nil, ErrDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &model.Contratista{
		RazonSocial: req.RazonSocial,
		RUC:         req.RUC,
		Direccion:   req.Direccion,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := contratistaToResponse(c)
	return &resp, nil
}

func (s *contratistaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratistaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	resp := contratistaToResponse(c)
	return &resp, nil
}

func (s *contratistaService) Listar(ctx context.Context) ([]dto.ContratistaResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContratistaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, contratistaToResponse(&rows[i]))
	}
	return out, nil
}

func (s *contratistaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ContratistaRequest) (*dto.ContratistaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	if req.RUC != c.RUC {
		if otro, err := s.repo.FindByRUC(ctx, req.RUC); err == nil && otro.ID != id {
			return nil, ErrDuplicado
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	c.RazonSocial = req.RazonSocial
	c.RUC = req.RUC
	c.Direccion = req.Direccion
	c.Telefono = req.Telefono
	c.Email = req.Email
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := contratistaToResponse(c)
	return &resp, nil
}

func (s *contratistaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	n, err := s.repo.CountGarantias(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEnUso
	}
	return s.repo.Delete(ctx, id)
}

func contratistaToResponse(c *model.Contratista) dto.ContratistaResponse {
	return dto.ContratistaResponse{
		ID:          c.ID.String(),
		RazonSocial: c.RazonSocial,
		RUC:         c.RUC,
		Direccion:   c.Direccion,
		Telefono:    c.Telefono,
		Email:       c.Email,
		Activo:      c.Activo,
	}
}

// ── EntidadFinanciera ────────────────────────────────────────────────────────

type EntidadFinancieraService interface {
	Crear(ctx context.Context, req dto.EntidadFinancieraRequest) (*dto.EntidadFinancieraResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EntidadFinancieraResponse, error)
	Listar(ctx context.Context) ([]dto.EntidadFinancieraResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.EntidadFinancieraRequest) (*dto.EntidadFinancieraResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type entidadFinancieraService struct {
	repo repository.EntidadFinancieraRepository
}

func NewEntidadFinancieraService(repo repository.EntidadFinancieraRepository) EntidadFinancieraService {
	return &entidadFinancieraService{repo: repo}
}

func (s *entidadFinancieraService) Crear(ctx context.Context, req dto.EntidadFinancieraRequest) (*dto.EntidadFinancieraResponse, error) {
	e := &model.EntidadFinanciera{Nombre: req.Nombre, Direccion: req.Direccion, Activo: true}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, ErrDuplicado
	}
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadFinancieraService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EntidadFinancieraResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadFinancieraService) Listar(ctx context.Context) ([]dto.EntidadFinancieraResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntidadFinancieraResponse, 0, len(rows))
	for i := range rows {
		out = append(out, entidadToResponse(&rows[i]))
	}
	return out, nil
}

func (s *entidadFinancieraService) Actualizar(ctx context.Context, id uuid.UUID, req dto.EntidadFinancieraRequest) (*dto.EntidadFinancieraResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	e.Nombre = req.Nombre
	e.Direccion = req.Direccion
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, ErrDuplicado
	}
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadFinancieraService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	n, err := s.repo.CountHistoriales(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEnUso
	}
	return s.repo.Delete(ctx, id)
}

func entidadToResponse(e *model.EntidadFinanciera) dto.EntidadFinancieraResponse {
	return dto.EntidadFinancieraResponse{
		ID:        e.ID.String(),
		Nombre:    e.Nombre,
		Direccion: e.Direccion,
		Activo:    e.Activo,
	}
}

// ── TipoMoneda ───────────────────────────────────────────────────────────────

type TipoMonedaService interface {
	Crear(ctx context.Context, req dto.TipoMonedaRequest) (*dto.TipoMonedaResponse, error)
	Listar(ctx context.Context) ([]dto.TipoMonedaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoMonedaRequest) (*dto.TipoMonedaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type tipoMonedaService struct {
	repo repository.TipoMonedaRepository
}

func NewTipoMonedaService(repo repository.TipoMonedaRepository) TipoMonedaService {
	return &tipoMonedaService{repo: repo}
}

func (s *tipoMonedaService) Crear(ctx context.Context, req dto.TipoMonedaRequest) (*dto.TipoMonedaResponse, error) {
	t := &model.TipoMoneda{Nombre: req.Nombre, Simbolo: req.Simbolo}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, ErrDuplicado
	}
	resp := tipoMonedaToResponse(t)
	return &resp, nil
}

func (s *tipoMonedaService) Listar(ctx context.Context) ([]dto.TipoMonedaResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoMonedaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, tipoMonedaToResponse(&rows[i]))
	}
	return out, nil
}

func (s *tipoMonedaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoMonedaRequest) (*dto.TipoMonedaResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	t.Nombre = req.Nombre
	t.Simbolo = req.Simbolo
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, ErrDuplicado
	}
	resp := tipoMonedaToResponse(t)
	return &resp, nil
}

func (s *tipoMonedaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	n, err := s.repo.CountHistoriales(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEnUso
	}
	return s.repo.Delete(ctx, id)
}

func tipoMonedaToResponse(t *model.TipoMoneda) dto.TipoMonedaResponse {
	return dto.TipoMonedaResponse{ID: t.ID.String(), Nombre: t.Nombre, Simbolo: t.Simbolo}
}

// ── TipoCarta ────────────────────────────────────────────────────────────────

type TipoCartaService interface {
	Crear(ctx context.Context, req dto.TipoCartaRequest) (*dto.TipoCartaResponse, error)
	Listar(ctx context.Context) ([]dto.TipoCartaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoCartaRequest) (*dto.TipoCartaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type tipoCartaService struct {
	repo repository.TipoCartaRepository
}

func NewTipoCartaService(repo repository.TipoCartaRepository) TipoCartaService {
	return &tipoCartaService{repo: repo}
}

func (s *tipoCartaService) Crear(ctx context.Context, req dto.TipoCartaRequest) (*dto.TipoCartaResponse, error) {
	t := &model.TipoCarta{Descripcion: req.Descripcion}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, ErrDuplicado
	}
	resp := tipoCartaToResponse(t)
	return &resp, nil
}

func (s *tipoCartaService) Listar(ctx context.Context) ([]dto.TipoCartaResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoCartaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, tipoCartaToResponse(&rows[i]))
	}
	return out, nil
}

func (s *tipoCartaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.TipoCartaRequest) (*dto.TipoCartaResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	t.Descripcion = req.Descripcion
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, ErrDuplicado
	}
	resp := tipoCartaToResponse(t)
	return &resp, nil
}

func (s *tipoCartaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	n, err := s.repo.CountHistoriales(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEnUso
	}
	return s.repo.Delete(ctx, id)
}

func tipoCartaToResponse(t *model.TipoCarta) dto.TipoCartaResponse {
	return dto.TipoCartaResponse{ID: t.ID.String(), Descripcion: t.Descripcion}
}

// ── ObjetoGarantia ───────────────────────────────────────────────────────────

type ObjetoGarantiaService interface {
	Crear(ctx context.Context, req dto.ObjetoGarantiaRequest) (*dto.ObjetoGarantiaResponse, error)
	Listar(ctx context.Context) ([]dto.ObjetoGarantiaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ObjetoGarantiaRequest) (*dto.ObjetoGarantiaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type objetoGarantiaService struct {
	repo repository.ObjetoGarantiaRepository
}

func NewObjetoGarantiaService(repo repository.ObjetoGarantiaRepository) ObjetoGarantiaService {
	return &objetoGarantiaService{repo: repo}
}

func (s *objetoGarantiaService) Crear(ctx context.Context, req dto.ObjetoGarantiaRequest) (*dto.ObjetoGarantiaResponse, error) {
	o := &model.ObjetoGarantia{Descripcion: req.Descripcion, CUI: req.CUI}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, ErrDuplicado
	}
	resp := objetoToResponse(o)
	return &resp, nil
}

func (s *objetoGarantiaService) Listar(ctx context.Context) ([]dto.ObjetoGarantiaResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObjetoGarantiaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, objetoToResponse(&rows[i]))
	}
	return out, nil
}

func (s *objetoGarantiaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ObjetoGarantiaRequest) (*dto.ObjetoGarantiaResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	o.Descripcion = req.Descripcion
	o.CUI = req.CUI
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, ErrDuplicado
	}
	resp := objetoToResponse(o)
	return &resp, nil
}

func (s *objetoGarantiaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNoEncontrado
	}
	n, err := s.repo.CountGarantias(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEnUso
	}
	return s.repo.Delete(ctx, id)
}

func objetoToResponse(o *model.ObjetoGarantia) dto.ObjetoGarantiaResponse {
	return dto.ObjetoGarantiaResponse{ID: o.ID.String(), Descripcion: o.Descripcion, CUI: o.CUI}
}

// ── EstadoGarantia ───────────────────────────────────────────────────────────
// Read-only: the state catalog is fixed and seeded at install time.

type EstadoService interface {
	Listar(ctx context.Context) ([]dto.EstadoGarantiaResponse, error)
}

type estadoService struct {
	repo repository.EstadoRepository
}

func NewEstadoService(repo repository.EstadoRepository) EstadoService {
	return &estadoService{repo: repo}
}

func (s *estadoService) Listar(ctx context.Context) ([]dto.EstadoGarantiaResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstadoGarantiaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.EstadoGarantiaResponse{
			ID:               rows[i].ID.String(),
			Nombre:           rows[i].Nombre,
			EsActivo:         rows[i].EsActivo,
			RequiereTerminos: rows[i].RequiereTerminos,
		})
	}
	return out, nil
}
