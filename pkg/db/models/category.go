package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products; game categories are distinguished from the
// rest so the storefront can render them separately.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Emoji     *string   `gorm:"column:emoji" json:"emoji,omitempty"`
	IsGame    bool      `gorm:"column:is_game;not null;default:true" json:"is_game"`
	IconURL   *string   `gorm:"column:icon_url" json:"icon_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
