package repository

import (
	"context"

	"sigcf/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArchivoRepository interface {
	Create(ctx context.Context, a *model.ArchivoHistorial) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ArchivoHistorial, error)
	ListByHistorial(ctx context.Context, historialID int64) ([]model.ArchivoHistorial, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByHistorial(ctx context.Context, tx *gorm.DB, historialID int64) error
}

type archivoRepo struct{ db *gorm.DB }

func NewArchivoRepository(db *gorm.DB) ArchivoRepository { return &archivoRepo{db: db} }

func (r *archivoRepo) Create(ctx context.Context, a *model.ArchivoHistorial) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *archivoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ArchivoHistorial, error) {
	var a model.ArchivoHistorial
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *archivoRepo) ListByHistorial(ctx context.Context, historialID int64) ([]model.ArchivoHistorial, error) {
	var rows []model.ArchivoHistorial
	err := r.db.WithContext(ctx).
		Where("historial_id = ?", historialID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *archivoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Delete(&model.ArchivoHistorial{}, "id = ?", id).Error
}

// DeleteByHistorial removes the metadata rows inside the same transaction
// that deletes the owning historial; blob removal happens after commit.
func (r *archivoRepo) DeleteByHistorial(ctx context.Context, tx *gorm.DB, historialID int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Delete(&model.ArchivoHistorial{}, "historial_id = ?", historialID).Error
}
