package middleware

import (
	"context"

	"github.com/universalshop/shop-backend/pkg/db/models"
)

type contextKey string

const ctxUser contextKey = "current_user"

// UserFromContext returns the authenticated user seeded by Auth, or nil.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if u, ok := ctx.Value(ctxUser).(*models.User); ok {
		return u
	}
	return nil
}

// WithUser injects the resolved user into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}
