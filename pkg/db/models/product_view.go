package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductView is an append-only log entry recording that a user opened a
// product detail. Rows are never updated or deleted; recall queries order
// by viewed_at descending.
type ProductView struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ViewedAt  time.Time `gorm:"column:viewed_at;autoCreateTime" json:"viewed_at"`
}
