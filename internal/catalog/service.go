package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/db/models"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines catalog read access plus the admin-side product create.
type Service interface {
	ListCategories(ctx context.Context, isGame *bool) ([]models.Category, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService wires the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context, isGame *bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, isGame)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ListAvailableProducts(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// GetProduct resolves a product by id, ignoring availability so that
// already-ordered or now-hidden products stay reachable by reference.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	if strings.TrimSpace(input.DeliveryData) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery data required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	if _, err := s.repo.FindCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	product, err := s.repo.CreateProduct(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}
