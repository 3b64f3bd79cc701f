package repository

import (
	"context"

	"sigcf/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContratistaRepository interface {
	Create(ctx context.Context, c *model.Contratista) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contratista, error)
	FindByRUC(ctx context.Context, ruc string) (*model.Contratista, error)
	List(ctx context.Context) ([]model.Contratista, error)
	Update(ctx context.Context, c *model.Contratista) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountGarantias reports how many garantías reference the contratista;
	// a non-zero count blocks deletion.
	CountGarantias(ctx context.Context, id uuid.UUID) (int64, error)
}

type contratistaRepo struct{ db *gorm.DB }

func NewContratistaRepository(db *gorm.DB) ContratistaRepository { return &contratistaRepo{db: db} }

func (r *contratistaRepo) Create(ctx context.Context, c *model.Contratista) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contratistaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contratista, error) {
	var c model.Contratista
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *contratistaRepo) FindByRUC(ctx context.Context, ruc string) (*model.Contratista, error) {
	var c model.Contratista
	err := r.db.WithContext(ctx).Where("ruc = ?", ruc).First(&c).Error
	return &c, err
}

func (r *contratistaRepo) List(ctx context.Context) ([]model.Contratista, error) {
	var rows []model.Contratista
	err := r.db.WithContext(ctx).Order("razon_social ASC").Find(&rows).Error
	return rows, err
}

func (r *contratistaRepo) Update(ctx context.Context, c *model.Contratista) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *contratistaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Contratista{}, "id = ?", id).Error
}

func (r *contratistaRepo) CountGarantias(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Garantia{}).
		Where("contratista_id = ?", id).
		Count(&n).Error
	return n, err
}
