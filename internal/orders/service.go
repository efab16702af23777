package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notifier interface {
	OrderCreated(ctx context.Context, event notify.OrderEvent) error
	OrderStatusChanged(ctx context.Context, event notify.OrderEvent) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error)
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productFinder
	users    userFinder
	notifier notifier
	metrics  *metrics.ShopMetrics
	logg     *logger.Logger
}

// ServiceParams collects the order service dependencies.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Products productFinder
	Users    userFinder
	Notifier notifier
	Metrics  *metrics.ShopMetrics
	Logger   *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		products: params.Products,
		users:    params.Users,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Create persists a new pending order. The product is resolved ignoring
// availability, and its current price is snapshotted into total_amount so
// later price changes never touch the order. A missing product aborts the
// operation with nothing written.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	product, err := s.products.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	order := &models.Order{
		UserID:         input.UserID,
		ProductID:      input.ProductID,
		Status:         enums.OrderStatusPending,
		PaymentMethod:  input.PaymentMethod,
		PaymentDetails: input.PaymentDetails,
		TotalAmount:    product.Price,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	created.Product = product

	s.metrics.IncOrderCreated(input.PaymentMethod.String())
	s.emit(ctx, created, product, false)
	return created, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// UpdateStatus advances an order along the lifecycle graph. Re-applying the
// current status is a no-op, which keeps completed_at stable across repeated
// completion calls; any other out-of-graph transition fails loudly.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var updated *models.Order
	var changed bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == newStatus {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition order from %s to %s", order.Status, newStatus)).
				WithDetails(map[string]any{"from": order.Status, "to": newStatus})
		}

		updates := map[string]any{"status": newStatus}
		if newStatus == enums.OrderStatusCompleted && order.CompletedAt == nil {
			now := time.Now().UTC()
			updates["completed_at"] = now
			order.CompletedAt = &now
		}
		if err := repo.Update(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		s.metrics.IncStatusTransition(order.Status.String(), newStatus.String())
		order.Status = newStatus
		updated = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.emit(ctx, updated, updated.Product, true)
	}
	return updated, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}
	return stats, nil
}

// emit delivers the order event to the notifier. Delivery problems are
// logged, never surfaced to the triggering operation.
func (s *service) emit(ctx context.Context, order *models.Order, product *models.Product, statusChange bool) {
	if s.notifier == nil {
		return
	}

	event := notify.OrderEvent{
		OrderID:       order.ID,
		BuyerHandle:   s.buyerHandle(ctx, order.UserID),
		Amount:        order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		Status:        order.Status,
	}
	if product != nil {
		event.ProductName = product.Name
	}

	var err error
	if statusChange {
		err = s.notifier.OrderStatusChanged(ctx, event)
	} else {
		err = s.notifier.OrderCreated(ctx, event)
	}
	if err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "order_id", order.ID.String())
		s.logg.Error(ctx, "order notification failed", err)
	}
}

func (s *service) buyerHandle(ctx context.Context, userID uuid.UUID) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "unknown"
	}
	return user.Handle()
}
