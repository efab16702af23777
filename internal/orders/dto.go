package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/enums"
)

// CreateOrderInput captures the buyer-side fields for a new order.
type CreateOrderInput struct {
	UserID         uuid.UUID
	ProductID      uuid.UUID
	PaymentMethod  enums.PaymentMethod
	PaymentDetails *string
}

// Stats aggregates storefront totals for the admin panel.
type Stats struct {
	TotalOrders     int64           `json:"total_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
}
