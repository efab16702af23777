package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/universalshop/shop-backend/internal/catalog"
	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubUsers struct{ user *models.User }

func (s stubUsers) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	if s.user != nil && s.user.TelegramID == telegramID {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCatalog struct{}

func (stubCatalog) ListCategories(ctx context.Context, isGame *bool) ([]models.Category, error) {
	return []models.Category{}, nil
}
func (stubCatalog) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	return []models.Product{}, nil
}
func (stubCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}
func (stubCatalog) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

type stubViews struct{}

func (stubViews) RecordView(ctx context.Context, userID, productID uuid.UUID) error { return nil }
func (stubViews) MostRecentView(ctx context.Context, userID uuid.UUID) (*models.ProductView, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no views recorded")
}

type stubOrders struct{}

func (stubOrders) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}
func (stubOrders) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return []models.Order{}, nil
}
func (stubOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}
func (stubOrders) Stats(ctx context.Context) (orders.Stats, error) { return orders.Stats{}, nil }

type stubBroadcaster struct{}

func (stubBroadcaster) Broadcast(ctx context.Context, text string) (notify.BroadcastResult, error) {
	return notify.BroadcastResult{}, nil
}

func newTestRouter(users stubUsers) http.Handler {
	return NewRouter(RouterParams{
		Config:      &config.Config{App: config.AppConfig{Env: "test"}},
		Registry:    prometheus.NewRegistry(),
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Users:       users,
		Catalog:     stubCatalog{},
		Views:       stubViews{},
		Orders:      stubOrders{},
		Broadcaster: stubBroadcaster{},
	})
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := newTestRouter(stubUsers{})

	for _, path := range []string{"/health/live", "/health/ready", "/metrics", "/api/v1/categories", "/api/v1/products"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equalf(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestRouterAuthGate(t *testing.T) {
	router := newTestRouter(stubUsers{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminGate(t *testing.T) {
	regular := &models.User{ID: uuid.New(), TelegramID: 42}
	router := newTestRouter(stubUsers{user: regular})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/broadcast", nil)
	req.Header.Set("Authorization", "Bearer 42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterMe(t *testing.T) {
	user := &models.User{ID: uuid.New(), TelegramID: 42}
	router := newTestRouter(stubUsers{user: user})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer 42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ID.String())
}
