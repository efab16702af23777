package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universalshop/shop-backend/api/middleware"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
)

type fakeOrdersService struct {
	createFn       func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
	updateStatusFn func(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

func (f *fakeOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (f *fakeOrdersService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (f *fakeOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, orderID, status)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (f *fakeOrdersService) Stats(ctx context.Context) (orders.Stats, error) {
	return orders.Stats{}, nil
}

func authedRequest(method, target string, body []byte, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	return req
}

func TestCreateOrderUsesAuthenticatedUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), TelegramID: 42}
	productID := uuid.New()

	svc := &fakeOrdersService{
		createFn: func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
			assert.Equal(t, user.ID, input.UserID)
			assert.Equal(t, productID, input.ProductID)
			assert.Equal(t, enums.PaymentMethodUSDT, input.PaymentMethod)
			return &models.Order{
				ID:            uuid.New(),
				UserID:        input.UserID,
				ProductID:     input.ProductID,
				Status:        enums.OrderStatusPending,
				PaymentMethod: input.PaymentMethod,
				TotalAmount:   decimal.RequireFromString("9.99"),
			}, nil
		},
	}

	body, _ := json.Marshal(map[string]any{
		"product_id":     productID.String(),
		"payment_method": "usdt",
	})
	rec := httptest.NewRecorder()
	CreateOrder(svc, nil)(rec, authedRequest(http.MethodPost, "/api/v1/orders", body, user))

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, enums.OrderStatusPending, envelope.Data.Status)
}

func TestCreateOrderRejectsUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateOrder(&fakeOrdersService{}, nil)(rec, authedRequest(http.MethodPost, "/api/v1/orders", []byte(`{}`), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderRejectsBadPaymentMethod(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	body, _ := json.Marshal(map[string]any{
		"product_id":     uuid.New().String(),
		"payment_method": "paypal",
	})

	rec := httptest.NewRecorder()
	CreateOrder(&fakeOrdersService{}, nil)(rec, authedRequest(http.MethodPost, "/api/v1/orders", body, user))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatusConflictSurfaces(t *testing.T) {
	orderID := uuid.New()
	svc := &fakeOrdersService{
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
			assert.Equal(t, orderID, id)
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot transition order from pending to completed")
		},
	}

	r := chi.NewRouter()
	r.Put("/orders/{orderId}/status", UpdateOrderStatus(svc, nil))

	body, _ := json.Marshal(map[string]any{"status": "completed"})
	req := authedRequest(http.MethodPut, "/orders/"+orderID.String()+"/status", body, &models.User{IsAdmin: true})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeStateConflict), envelope.Error.Code)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/orders/{orderId}/status", UpdateOrderStatus(&fakeOrdersService{}, nil))

	body, _ := json.Marshal(map[string]any{"status": "shipped"})
	req := authedRequest(http.MethodPut, "/orders/"+uuid.New().String()+"/status", body, &models.User{IsAdmin: true})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
