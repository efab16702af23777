package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Stats(ctx context.Context) (Stats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := r.db.WithContext(ctx).Model(&models.Order{})

	if err := db.Count(&stats.TotalOrders).Error; err != nil {
		return Stats{}, err
	}

	completed := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusCompleted)
	if err := completed.Count(&stats.CompletedOrders).Error; err != nil {
		return Stats{}, err
	}

	var revenue decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusCompleted).
		Select("SUM(total_amount)").
		Scan(&revenue).Error
	if err != nil {
		return Stats{}, err
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}
	return stats, nil
}
