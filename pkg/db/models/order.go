package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/enums"
)

// Order ties a user to a product purchase. TotalAmount snapshots the
// product price at creation time and is immutable afterwards; later
// product price changes never touch existing orders. CompletedAt is set
// exactly once, on the first transition into the completed status.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ProductID      uuid.UUID           `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method"`
	PaymentDetails *string             `gorm:"column:payment_details" json:"payment_details,omitempty"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Product        *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt    *time.Time          `gorm:"column:completed_at" json:"completed_at,omitempty"`
}
