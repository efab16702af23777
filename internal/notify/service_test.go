package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
)

type fakeMessenger struct {
	failFor map[int64]error
	sent    []int64
}

func (f *fakeMessenger) Send(ctx context.Context, chatID int64, text string) error {
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

type fakeRecipients struct {
	users []models.User
	err   error
}

func (f *fakeRecipients) ListAll(ctx context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func recipients(ids ...int64) *fakeRecipients {
	r := &fakeRecipients{}
	for _, id := range ids {
		r.users = append(r.users, models.User{ID: uuid.New(), TelegramID: id})
	}
	return r
}

func newTestService(t *testing.T, messenger *fakeMessenger, lister *fakeRecipients, channelID int64) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Messenger:       messenger,
		Recipients:      lister,
		ReviewChannelID: channelID,
		BroadcastDelay:  time.Millisecond,
	})
	require.NoError(t, err)
	return svc
}

func TestBroadcastPartialFailure(t *testing.T) {
	messenger := &fakeMessenger{failFor: map[int64]error{2: errors.New("blocked by user")}}
	svc := newTestService(t, messenger, recipients(1, 2, 3), 0)

	result, err := svc.Broadcast(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []int64{1, 3}, messenger.sent)
}

func TestBroadcastEmptyText(t *testing.T) {
	svc := newTestService(t, &fakeMessenger{}, recipients(1), 0)

	_, err := svc.Broadcast(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestBroadcastRecipientListFailure(t *testing.T) {
	lister := &fakeRecipients{err: errors.New("db down")}
	svc := newTestService(t, &fakeMessenger{}, lister, 0)

	_, err := svc.Broadcast(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestBroadcastCancelledContext(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, recipients(1, 2, 3), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First send happens before any delay; cancellation lands on the
	// inter-message wait.
	result, err := svc.Broadcast(ctx, "hello")
	require.Error(t, err)
	assert.Equal(t, 1, result.Sent)
}

func TestOrderCreatedPostsToReviewChannel(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, recipients(), 777)

	err := svc.OrderCreated(context.Background(), OrderEvent{
		OrderID:     uuid.New(),
		BuyerHandle: "@alice",
		ProductName: "Steam Key",
		Amount:      decimal.RequireFromString("9.99"),
		Status:      enums.OrderStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{777}, messenger.sent)
}

func TestOrderCreatedUnconfiguredChannelDrops(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, recipients(), 0)

	err := svc.OrderCreated(context.Background(), OrderEvent{OrderID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, messenger.sent)
}

func TestFormatCreatedEscapesHTML(t *testing.T) {
	event := OrderEvent{
		OrderID:       uuid.New(),
		BuyerHandle:   "<script>",
		ProductName:   "Key & Co",
		Amount:        decimal.RequireFromString("12.50"),
		PaymentMethod: enums.PaymentMethodUSDT,
		CreatedAt:     time.Now(),
		Status:        enums.OrderStatusPending,
	}

	text := FormatCreated(event)
	assert.NotContains(t, text, "<script>")
	assert.Contains(t, text, "&lt;script&gt;")
	assert.Contains(t, text, "Key &amp; Co")
	assert.Contains(t, text, "$12.50")
	assert.Contains(t, text, strings.ToUpper("new order"))
	assert.Contains(t, text, event.OrderID.String()[:8])
}

func TestFormatStatusChangedCarriesStatusLine(t *testing.T) {
	event := OrderEvent{
		OrderID: uuid.New(),
		Amount:  decimal.RequireFromString("3.00"),
		Status:  enums.OrderStatusCompleted,
	}

	text := FormatStatusChanged(event)
	assert.Contains(t, text, "Completed")
}
