package controllers

import (
	"net/http"

	"github.com/universalshop/shop-backend/api/middleware"
	"github.com/universalshop/shop-backend/api/responses"
	"github.com/universalshop/shop-backend/internal/views"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"github.com/universalshop/shop-backend/pkg/logger"
)

// RecentView returns the authenticated user's most recent product view.
func RecentView(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		view, err := svc.MostRecentView(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
