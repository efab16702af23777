package views

import (
	"context"

	"github.com/google/uuid"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for the append-only product view log.
type Repository interface {
	Create(ctx context.Context, view *models.ProductView) error
	FindMostRecent(ctx context.Context, userID uuid.UUID) (*models.ProductView, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a views repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, view *models.ProductView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *repository) FindMostRecent(ctx context.Context, userID uuid.UUID) (*models.ProductView, error) {
	var view models.ProductView
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		First(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}
