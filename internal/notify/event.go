package notify

import (
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/universalshop/shop-backend/pkg/enums"
)

// OrderEvent carries the fields rendered into a review channel message
// when an order is created or changes status.
type OrderEvent struct {
	OrderID       uuid.UUID
	BuyerHandle   string
	ProductName   string
	Amount        decimal.Decimal
	PaymentMethod enums.PaymentMethod
	CreatedAt     time.Time
	Status        enums.OrderStatus
}

var statusLines = map[enums.OrderStatus]string{
	enums.OrderStatusPending:   "⏳ Awaiting payment",
	enums.OrderStatusPaid:      "💵 Paid",
	enums.OrderStatusCompleted: "✅ Completed",
	enums.OrderStatusCancelled: "❌ Cancelled",
}

// FormatCreated renders the new-order message posted to the review channel.
func FormatCreated(event OrderEvent) string {
	return fmt.Sprintf(
		"🛒 <b>NEW ORDER #%s</b>\n\n"+
			"👤 <b>Buyer:</b> %s\n"+
			"📦 <b>Product:</b> %s\n"+
			"💰 <b>Amount:</b> $%s\n"+
			"💳 <b>Payment:</b> %s\n"+
			"⏰ <b>Time:</b> %s\n\n"+
			"<i>Status: %s</i>",
		shortID(event.OrderID),
		html.EscapeString(event.BuyerHandle),
		html.EscapeString(event.ProductName),
		event.Amount.StringFixed(2),
		event.PaymentMethod.String(),
		event.CreatedAt.Format(time.RFC822),
		statusLine(event.Status),
	)
}

// FormatStatusChanged renders the status-transition message.
func FormatStatusChanged(event OrderEvent) string {
	return fmt.Sprintf(
		"📋 <b>ORDER #%s UPDATED</b>\n\n"+
			"👤 <b>Buyer:</b> %s\n"+
			"📦 <b>Product:</b> %s\n"+
			"💰 <b>Amount:</b> $%s\n\n"+
			"<i>Status: %s</i>",
		shortID(event.OrderID),
		html.EscapeString(event.BuyerHandle),
		html.EscapeString(event.ProductName),
		event.Amount.StringFixed(2),
		statusLine(event.Status),
	)
}

func statusLine(status enums.OrderStatus) string {
	if line, ok := statusLines[status]; ok {
		return line
	}
	return status.String()
}

// shortID keeps channel messages scannable; the full id is available via
// the admin API.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
