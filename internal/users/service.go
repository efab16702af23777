package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/universalshop/shop-backend/pkg/db/models"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"gorm.io/gorm"
)

type repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// Service resolves users by their platform identifier.
type Service struct {
	repo repository
}

// NewService wires the identity resolution service.
func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Service{repo: repo}, nil
}

// ResolveOrCreate looks up a user by telegram_id, creating one on first
// contact. Existing rows keep their first-seen profile fields; the supplied
// profile is only used when the user is new.
func (s *Service) ResolveOrCreate(ctx context.Context, telegramID int64, profile Profile) (*models.User, error) {
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	created, err := s.repo.Create(ctx, CreateUserDTO{TelegramID: telegramID, Profile: profile})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}
