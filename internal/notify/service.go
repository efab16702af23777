package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/universalshop/shop-backend/pkg/db/models"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/metrics"
	"go.uber.org/multierr"
)

const (
	audienceReview    = "review_channel"
	audienceBroadcast = "broadcast"

	outcomeSent   = "sent"
	outcomeFailed = "failed"
)

// Messenger is the delivery channel surface notify depends on. A failure
// to deliver to one recipient must not crash the caller.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// RecipientLister enumerates every known user for broadcast delivery.
type RecipientLister interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

// BroadcastResult reports per-recipient delivery outcomes for one batch.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Service formats order lifecycle events and delivers them to the review
// channel, and fans broadcast messages out to all known users.
type Service struct {
	messenger       Messenger
	recipients      RecipientLister
	reviewChannelID int64
	broadcastDelay  time.Duration
	metrics         *metrics.ShopMetrics
	logg            *logger.Logger
}

// ServiceParams collects the notify service dependencies.
type ServiceParams struct {
	Messenger       Messenger
	Recipients      RecipientLister
	ReviewChannelID int64
	BroadcastDelay  time.Duration
	Metrics         *metrics.ShopMetrics
	Logger          *logger.Logger
}

// NewService wires the notification dispatch service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Messenger == nil {
		return nil, fmt.Errorf("messenger required")
	}
	if params.Recipients == nil {
		return nil, fmt.Errorf("recipient lister required")
	}
	delay := params.BroadcastDelay
	if delay <= 0 {
		// 10 messages/second keeps us under the platform throughput limit
		delay = 100 * time.Millisecond
	}
	return &Service{
		messenger:       params.Messenger,
		recipients:      params.Recipients,
		reviewChannelID: params.ReviewChannelID,
		broadcastDelay:  delay,
		metrics:         params.Metrics,
		logg:            params.Logger,
	}, nil
}

// OrderCreated posts the new-order message to the review channel.
func (s *Service) OrderCreated(ctx context.Context, event OrderEvent) error {
	return s.sendToReviewChannel(ctx, FormatCreated(event))
}

// OrderStatusChanged posts the status-transition message to the review channel.
func (s *Service) OrderStatusChanged(ctx context.Context, event OrderEvent) error {
	return s.sendToReviewChannel(ctx, FormatStatusChanged(event))
}

func (s *Service) sendToReviewChannel(ctx context.Context, text string) error {
	if s.reviewChannelID == 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, "review channel not configured, dropping order notification")
		}
		return nil
	}
	if err := s.messenger.Send(ctx, s.reviewChannelID, text); err != nil {
		s.metrics.IncDelivery(audienceReview, outcomeFailed)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deliver order notification")
	}
	s.metrics.IncDelivery(audienceReview, outcomeSent)
	return nil
}

// Broadcast delivers text to every known user, one at a time with a fixed
// inter-message delay. Per-recipient failures are counted and logged, never
// fatal to the batch; the aggregate error is surfaced only through the log.
func (s *Service) Broadcast(ctx context.Context, text string) (BroadcastResult, error) {
	if strings.TrimSpace(text) == "" {
		return BroadcastResult{}, pkgerrors.New(pkgerrors.CodeValidation, "broadcast text required")
	}

	recipients, err := s.recipients.ListAll(ctx)
	if err != nil {
		return BroadcastResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list broadcast recipients")
	}

	var result BroadcastResult
	var deliveryErrs error
	for i, recipient := range recipients {
		if i > 0 {
			select {
			case <-time.After(s.broadcastDelay):
			case <-ctx.Done():
				return result, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "broadcast interrupted")
			}
		}

		if err := s.messenger.Send(ctx, recipient.TelegramID, text); err != nil {
			result.Failed++
			s.metrics.IncDelivery(audienceBroadcast, outcomeFailed)
			deliveryErrs = multierr.Append(deliveryErrs, fmt.Errorf("recipient %d: %w", recipient.TelegramID, err))
			continue
		}
		result.Sent++
		s.metrics.IncDelivery(audienceBroadcast, outcomeSent)
	}

	if deliveryErrs != nil && s.logg != nil {
		fields := map[string]any{"sent": result.Sent, "failed": result.Failed}
		s.logg.Error(s.logg.WithFields(ctx, fields), "broadcast completed with failures", deliveryErrs)
	}
	return result, nil
}
