package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a listing. Price is fixed at creation; orders
// snapshot it into their own total_amount. DeliveryData is the opaque
// payload handed to the buyer on fulfillment and is never interpreted.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	Description  *string         `gorm:"column:description" json:"description,omitempty"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	ImageURL     *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	DeliveryData string          `gorm:"column:delivery_data;not null" json:"delivery_data"`
	IsAvailable  bool            `gorm:"column:is_available;not null;default:true" json:"is_available"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
