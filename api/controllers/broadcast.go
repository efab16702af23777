package controllers

import (
	"context"
	"net/http"

	"github.com/universalshop/shop-backend/api/responses"
	"github.com/universalshop/shop-backend/api/validators"
	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/pkg/logger"
)

// Broadcaster fans a message out to every registered user.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (notify.BroadcastResult, error)
}

type broadcastRequest struct {
	Text string `json:"text" validate:"required"`
}

// Broadcast sends a message to all registered users. Admin only. Partial
// delivery failures do not fail the request; the counts tell the story.
func Broadcast(svc Broadcaster, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload broadcastRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Broadcast(r.Context(), payload.Text)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
