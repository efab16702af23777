package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	ListCategories(ctx context.Context, isGame *bool) ([]models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListAvailableProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context, isGame *bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if isGame != nil {
		query = query.Where("is_game = ?", *isGame)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListAvailableProducts hides unavailable products regardless of any other
// filter; direct lookup by id is the only way to reach them.
func (r *repository) ListAvailableProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_available = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
