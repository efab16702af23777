package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity, keyed on the Telegram
// user identifier. Profile fields are captured once on first contact and
// never refreshed afterwards.
type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TelegramID int64     `gorm:"column:telegram_id;not null;uniqueIndex" json:"telegram_id"`
	Username   *string   `gorm:"column:username" json:"username,omitempty"`
	FirstName  *string   `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName   *string   `gorm:"column:last_name" json:"last_name,omitempty"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Handle returns the best human-readable reference for the user.
func (u User) Handle() string {
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	return "unknown"
}
