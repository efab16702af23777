package bot

import (
	"context"
	"errors"
	"time"

	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/telegram"
)

const pollRetryDelay = 3 * time.Second

// Runner drives the long-polling loop, feeding updates into the dispatcher.
type Runner struct {
	client     *telegram.Client
	dispatcher *Dispatcher
	logg       *logger.Logger
}

// NewRunner wires the polling loop.
func NewRunner(client *telegram.Client, dispatcher *Dispatcher, logg *logger.Logger) (*Runner, error) {
	if client == nil {
		return nil, errors.New("telegram client required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher required")
	}
	return &Runner{client: client, dispatcher: dispatcher, logg: logg}, nil
}

// Run long-polls for updates until the context is canceled. Updates
// accumulated while the bot was down are dropped before polling starts.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.client.DeleteWebhook(ctx); err != nil {
		return err
	}
	if r.logg != nil {
		r.logg.Info(ctx, "bot polling started")
	}

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := r.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.logg != nil {
				r.logg.Error(ctx, "polling updates failed", err)
			}
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if err := r.dispatcher.Dispatch(ctx, update); err != nil && r.logg != nil {
				uctx := r.logg.WithField(ctx, "update_id", update.UpdateID)
				r.logg.Error(uctx, "update handling failed", err)
			}
		}
	}
}
