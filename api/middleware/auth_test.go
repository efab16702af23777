package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/universalshop/shop-backend/pkg/db/models"
)

type fakeResolver struct {
	user *models.User
}

func (f *fakeResolver) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	if f.user != nil && f.user.TelegramID == telegramID {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func authTestHandler(captured **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	var captured *models.User
	handler := Auth(&fakeResolver{}, nil)(authTestHandler(&captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthNonNumericCredential(t *testing.T) {
	var captured *models.User
	handler := Auth(&fakeResolver{}, nil)(authTestHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-number")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthUnknownUser(t *testing.T) {
	var captured *models.User
	handler := Auth(&fakeResolver{}, nil)(authTestHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer 42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthResolvesUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), TelegramID: 42}
	var captured *models.User
	handler := Auth(&fakeResolver{user: user}, nil)(authTestHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer 42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, user.ID, captured.ID)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(nil)(next)

	// No user in context.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Regular user.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{TelegramID: 42}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin user.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{TelegramID: 42, IsAdmin: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
