package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/universalshop/shop-backend/pkg/db/models"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service tracks product detail views for "continue browsing" recall.
type Service interface {
	RecordView(ctx context.Context, userID, productID uuid.UUID) error
	MostRecentView(ctx context.Context, userID uuid.UUID) (*models.ProductView, error)
}

type service struct {
	repo Repository
}

// NewService wires the view tracking service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("views repository required")
	}
	return &service{repo: repo}, nil
}

// RecordView appends a view row. Repeated views of the same product all
// produce new rows; there is no duplicate suppression.
func (s *service) RecordView(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	view := &models.ProductView{UserID: userID, ProductID: productID}
	if err := s.repo.Create(ctx, view); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return nil
}

func (s *service) MostRecentView(ctx context.Context, userID uuid.UUID) (*models.ProductView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	view, err := s.repo.FindMostRecent(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no views recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load most recent view")
	}
	return view, nil
}
