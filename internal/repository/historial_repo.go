package repository

import (
	"context"

	"sigcf/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistorialRepository interface {
	Create(ctx context.Context, tx *gorm.DB, h *model.GarantiaHistorial) error
	FindByID(ctx context.Context, id int64) (*model.GarantiaHistorial, error)
	// MaxID returns the highest historial id for a garantía, or 0 when it has
	// no records. Passing the open transaction makes the latest-record check
	// race-free: it re-reads inside the same snapshot that commits the mutation.
	MaxID(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (int64, error)
	FindUltimo(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (*model.GarantiaHistorial, error)
	// FindUltimoActivoAntes returns the newest es_activo record with id below
	// beforeID — the terms that a Devolución/Ejecución closed over.
	FindUltimoActivoAntes(ctx context.Context, garantiaID uuid.UUID, beforeID int64) (*model.GarantiaHistorial, error)
	Update(ctx context.Context, tx *gorm.DB, h *model.GarantiaHistorial) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	Count(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (int64, error)
	// ListUltimosActivos returns, for every open garantía, its latest historial
	// (the max-id record, only when that record is still active).
	ListUltimosActivos(ctx context.Context) ([]model.GarantiaHistorial, error)
	DB() *gorm.DB
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) DB() *gorm.DB { return r.db }

// conn prefers the caller's open transaction; nil means plain reads.
func (r *historialRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *historialRepo) Create(ctx context.Context, tx *gorm.DB, h *model.GarantiaHistorial) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Create(h).Error
}

func (r *historialRepo) FindByID(ctx context.Context, id int64) (*model.GarantiaHistorial, error) {
	var h model.GarantiaHistorial
	err := r.db.WithContext(ctx).
		Preload("Estado").
		Preload("TipoCarta").
		Preload("EntidadFinanciera").
		Preload("TipoMoneda").
		Preload("Archivos").
		First(&h, "id = ?", id).Error
	return &h, err
}

func (r *historialRepo) MaxID(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (int64, error) {
	var maxID int64
	err := r.conn(tx).WithContext(ctx).
		Model(&model.GarantiaHistorial{}).
		Where("garantia_id = ?", garantiaID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

func (r *historialRepo) FindUltimo(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (*model.GarantiaHistorial, error) {
	var h model.GarantiaHistorial
	err := r.conn(tx).WithContext(ctx).
		Where("garantia_id = ?", garantiaID).
		Order("id DESC").
		Preload("Estado").
		First(&h).Error
	return &h, err
}

func (r *historialRepo) FindUltimoActivoAntes(ctx context.Context, garantiaID uuid.UUID, beforeID int64) (*model.GarantiaHistorial, error) {
	var h model.GarantiaHistorial
	err := r.db.WithContext(ctx).
		Where("garantia_id = ? AND id < ? AND es_activo = true", garantiaID, beforeID).
		Order("id DESC").
		Preload("Estado").
		Preload("TipoCarta").
		Preload("EntidadFinanciera").
		Preload("TipoMoneda").
		First(&h).Error
	return &h, err
}

// Update persists only the record's own columns; preloaded associations
// are never written back.
func (r *historialRepo) Update(ctx context.Context, tx *gorm.DB, h *model.GarantiaHistorial) error {
	return r.conn(tx).WithContext(ctx).Omit(clause.Associations).Save(h).Error
}

func (r *historialRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	return r.conn(tx).WithContext(ctx).Delete(&model.GarantiaHistorial{}, "id = ?", id).Error
}

func (r *historialRepo) Count(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (int64, error) {
	var n int64
	err := r.conn(tx).WithContext(ctx).
		Model(&model.GarantiaHistorial{}).
		Where("garantia_id = ?", garantiaID).
		Count(&n).Error
	return n, err
}

func (r *historialRepo) ListUltimosActivos(ctx context.Context) ([]model.GarantiaHistorial, error) {
	var rows []model.GarantiaHistorial
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT MAX(id) FROM garantia_historiales GROUP BY garantia_id)").
		Where("es_activo = true").
		Preload("Estado").
		Preload("TipoMoneda").
		Preload("EntidadFinanciera").
		Preload("Garantia.ObjetoGarantia").
		Preload("Garantia.Contratista").
		Find(&rows).Error
	return rows, err
}
