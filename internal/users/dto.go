package users

import "github.com/universalshop/shop-backend/pkg/db/models"

// Profile carries the optional Telegram profile fields captured on first
// contact.
type Profile struct {
	Username  *string
	FirstName *string
	LastName  *string
}

// CreateUserDTO is the payload persisted for a first-seen user.
type CreateUserDTO struct {
	TelegramID int64
	Profile    Profile
}

// ToModel maps the DTO onto a persistable user row.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		TelegramID: d.TelegramID,
		Username:   d.Profile.Username,
		FirstName:  d.Profile.FirstName,
		LastName:   d.Profile.LastName,
		IsAdmin:    false,
	}
}
