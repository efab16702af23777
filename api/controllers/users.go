package controllers

import (
	"net/http"

	"github.com/universalshop/shop-backend/api/middleware"
	"github.com/universalshop/shop-backend/api/responses"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"github.com/universalshop/shop-backend/pkg/logger"
)

// Me returns the profile of the authenticated caller.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		responses.WriteSuccess(w, user)
	}
}
