package repository

// Repos for the remaining reference catalogs. All follow the same shape:
// plain CRUD plus a usage count that guards deletion (referential integrity
// is surfaced as a Conflict, never as a raw FK error).

import (
	"context"

	"sigcf/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── EntidadFinanciera ────────────────────────────────────────────────────────

type EntidadFinancieraRepository interface {
	Create(ctx context.Context, e *model.EntidadFinanciera) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EntidadFinanciera, error)
	List(ctx context.Context) ([]model.EntidadFinanciera, error)
	Update(ctx context.Context, e *model.EntidadFinanciera) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error)
}

type entidadFinancieraRepo struct{ db *gorm.DB }

func NewEntidadFinancieraRepository(db *gorm.DB) EntidadFinancieraRepository {
	return &entidadFinancieraRepo{db: db}
}

func (r *entidadFinancieraRepo) Create(ctx context.Context, e *model.EntidadFinanciera) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entidadFinancieraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EntidadFinanciera, error) {
	var e model.EntidadFinanciera
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *entidadFinancieraRepo) List(ctx context.Context) ([]model.EntidadFinanciera, error) {
	var rows []model.EntidadFinanciera
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&rows).Error
	return rows, err
}

func (r *entidadFinancieraRepo) Update(ctx context.Context, e *model.EntidadFinanciera) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *entidadFinancieraRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.EntidadFinanciera{}, "id = ?", id).Error
}

func (r *entidadFinancieraRepo) CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.GarantiaHistorial{}).
		Where("entidad_financiera_id = ?", id).
		Count(&n).Error
	return n, err
}

// ── TipoMoneda ───────────────────────────────────────────────────────────────

type TipoMonedaRepository interface {
	Create(ctx context.Context, t *model.TipoMoneda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoMoneda, error)
	List(ctx context.Context) ([]model.TipoMoneda, error)
	Update(ctx context.Context, t *model.TipoMoneda) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error)
}

type tipoMonedaRepo struct{ db *gorm.DB }

func NewTipoMonedaRepository(db *gorm.DB) TipoMonedaRepository { return &tipoMonedaRepo{db: db} }

func (r *tipoMonedaRepo) Create(ctx context.Context, t *model.TipoMoneda) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoMonedaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoMoneda, error) {
	var t model.TipoMoneda
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tipoMonedaRepo) List(ctx context.Context) ([]model.TipoMoneda, error) {
	var rows []model.TipoMoneda
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&rows).Error
	return rows, err
}

func (r *tipoMonedaRepo) Update(ctx context.Context, t *model.TipoMoneda) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoMonedaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TipoMoneda{}, "id = ?", id).Error
}

func (r *tipoMonedaRepo) CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.GarantiaHistorial{}).
		Where("tipo_moneda_id = ?", id).
		Count(&n).Error
	return n, err
}

// ── TipoCarta ────────────────────────────────────────────────────────────────

type TipoCartaRepository interface {
	Create(ctx context.Context, t *model.TipoCarta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCarta, error)
	List(ctx context.Context) ([]model.TipoCarta, error)
	Update(ctx context.Context, t *model.TipoCarta) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error)
}

type tipoCartaRepo struct{ db *gorm.DB }

func NewTipoCartaRepository(db *gorm.DB) TipoCartaRepository { return &tipoCartaRepo{db: db} }

func (r *tipoCartaRepo) Create(ctx context.Context, t *model.TipoCarta) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoCartaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCarta, error) {
	var t model.TipoCarta
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tipoCartaRepo) List(ctx context.Context) ([]model.TipoCarta, error) {
	var rows []model.TipoCarta
	err := r.db.WithContext(ctx).Order("descripcion ASC").Find(&rows).Error
	return rows, err
}

func (r *tipoCartaRepo) Update(ctx context.Context, t *model.TipoCarta) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoCartaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TipoCarta{}, "id = ?", id).Error
}

func (r *tipoCartaRepo) CountHistoriales(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.GarantiaHistorial{}).
		Where("tipo_carta_id = ?", id).
		Count(&n).Error
	return n, err
}

// ── ObjetoGarantia ───────────────────────────────────────────────────────────

type ObjetoGarantiaRepository interface {
	Create(ctx context.Context, o *model.ObjetoGarantia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ObjetoGarantia, error)
	List(ctx context.Context) ([]model.ObjetoGarantia, error)
	Update(ctx context.Context, o *model.ObjetoGarantia) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountGarantias(ctx context.Context, id uuid.UUID) (int64, error)
}

type objetoGarantiaRepo struct{ db *gorm.DB }

func NewObjetoGarantiaRepository(db *gorm.DB) ObjetoGarantiaRepository {
	return &objetoGarantiaRepo{db: db}
}

func (r *objetoGarantiaRepo) Create(ctx context.Context, o *model.ObjetoGarantia) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *objetoGarantiaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ObjetoGarantia, error) {
	var o model.ObjetoGarantia
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *objetoGarantiaRepo) List(ctx context.Context) ([]model.ObjetoGarantia, error) {
	var rows []model.ObjetoGarantia
	err := r.db.WithContext(ctx).Order("descripcion ASC").Find(&rows).Error
	return rows, err
}

func (r *objetoGarantiaRepo) Update(ctx context.Context, o *model.ObjetoGarantia) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *objetoGarantiaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ObjetoGarantia{}, "id = ?", id).Error
}

func (r *objetoGarantiaRepo) CountGarantias(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Garantia{}).
		Where("objeto_garantia_id = ?", id).
		Count(&n).Error
	return n, err
}

// ── EstadoGarantia ───────────────────────────────────────────────────────────
// Fixed catalog, seeded by cmd/seeduser; read-only at runtime.

type EstadoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.EstadoGarantia, error)
	FindByNombre(ctx context.Context, nombre string) (*model.EstadoGarantia, error)
	List(ctx context.Context) ([]model.EstadoGarantia, error)
}

type estadoRepo struct{ db *gorm.DB }

func NewEstadoRepository(db *gorm.DB) EstadoRepository { return &estadoRepo{db: db} }

func (r *estadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EstadoGarantia, error) {
	var e model.EstadoGarantia
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *estadoRepo) FindByNombre(ctx context.Context, nombre string) (*model.EstadoGarantia, error) {
	var e model.EstadoGarantia
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&e).Error
	return &e, err
}

func (r *estadoRepo) List(ctx context.Context) ([]model.EstadoGarantia, error) {
	var rows []model.EstadoGarantia
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&rows).Error
	return rows, err
}
