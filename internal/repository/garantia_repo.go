package repository

import (
	"context"

	"sigcf/internal/dto"
	"sigcf/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GarantiaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, g *model.Garantia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Garantia, error)
	List(ctx context.Context, filter dto.GarantiaFilter) ([]model.Garantia, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type garantiaRepo struct{ db *gorm.DB }

func NewGarantiaRepository(db *gorm.DB) GarantiaRepository { return &garantiaRepo{db: db} }

func (r *garantiaRepo) DB() *gorm.DB { return r.db }

func (r *garantiaRepo) Create(ctx context.Context, tx *gorm.DB, g *model.Garantia) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(g).Error
}

// FindByID loads the garantía with its full ordered history chain.
func (r *garantiaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Garantia, error) {
	var g model.Garantia
	err := r.db.WithContext(ctx).
		Preload("ObjetoGarantia").
		Preload("Contratista").
		Preload("Historiales", func(db *gorm.DB) *gorm.DB {
			return db.Order("garantia_historiales.id ASC")
		}).
		Preload("Historiales.Estado").
		Preload("Historiales.TipoCarta").
		Preload("Historiales.EntidadFinanciera").
		Preload("Historiales.TipoMoneda").
		Preload("Historiales.Archivos").
		First(&g, "id = ?", id).Error
	return &g, err
}

func (r *garantiaRepo) List(ctx context.Context, filter dto.GarantiaFilter) ([]model.Garantia, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Garantia{})
	if filter.ContratistaID != nil {
		q = q.Where("contratista_id = ?", *filter.ContratistaID)
	}
	if filter.ObjetoGarantiaID != nil {
		q = q.Where("objeto_garantia_id = ?", *filter.ObjetoGarantiaID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var garantias []model.Garantia
	err := q.
		Preload("ObjetoGarantia").
		Preload("Contratista").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&garantias).Error
	return garantias, total, err
}

func (r *garantiaRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Delete(&model.Garantia{}, "id = ?", id).Error
}
