package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/db/models"
)

// CreateProductInput is the admin-side payload for listing a product.
type CreateProductInput struct {
	Name         string
	Description  *string
	Price        decimal.Decimal
	ImageURL     *string
	CategoryID   uuid.UUID
	DeliveryData string
}

// ToModel maps the input onto a persistable product row.
func (i CreateProductInput) ToModel() *models.Product {
	return &models.Product{
		Name:         i.Name,
		Description:  i.Description,
		Price:        i.Price,
		ImageURL:     i.ImageURL,
		CategoryID:   i.CategoryID,
		DeliveryData: i.DeliveryData,
		IsAvailable:  true,
	}
}
