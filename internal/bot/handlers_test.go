package bot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/internal/users"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/enums"
	"github.com/universalshop/shop-backend/pkg/telegram"
)

type fakeAPI struct {
	sent     []telegram.SendMessageParams
	edited   []telegram.EditMessageTextParams
	answered []telegram.AnswerCallbackQueryParams
}

func (f *fakeAPI) SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error) {
	f.sent = append(f.sent, params)
	return &telegram.Message{MessageID: int64(len(f.sent)), Chat: telegram.Chat{ID: params.ChatID}}, nil
}

func (f *fakeAPI) EditMessageText(ctx context.Context, params telegram.EditMessageTextParams) error {
	f.edited = append(f.edited, params)
	return nil
}

func (f *fakeAPI) AnswerCallbackQuery(ctx context.Context, params telegram.AnswerCallbackQueryParams) error {
	f.answered = append(f.answered, params)
	return nil
}

type memoryStateStore struct {
	states map[int64]string
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[int64]string)}
}

func (m *memoryStateStore) Get(ctx context.Context, chatID int64) (string, error) {
	return m.states[chatID], nil
}

func (m *memoryStateStore) Set(ctx context.Context, chatID int64, state string) error {
	m.states[chatID] = state
	return nil
}

func (m *memoryStateStore) Clear(ctx context.Context, chatID int64) error {
	delete(m.states, chatID)
	return nil
}

type memoryUserRepo struct {
	byTelegramID map[int64]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byTelegramID: make(map[int64]*models.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	m.byTelegramID[dto.TelegramID] = user
	return user, nil
}

func (m *memoryUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	if user, ok := m.byTelegramID[telegramID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOrdersService struct {
	stats orders.Stats
}

func (f *fakeOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus enums.OrderStatus) (*models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersService) Stats(ctx context.Context) (orders.Stats, error) {
	return f.stats, nil
}

type fixedCounter int64

func (f fixedCounter) Count(ctx context.Context) (int64, error)         { return int64(f), nil }
func (f fixedCounter) CountProducts(ctx context.Context) (int64, error) { return int64(f), nil }

type fakeBroadcaster struct {
	text   string
	result notify.BroadcastResult
}

func (f *fakeBroadcaster) Broadcast(ctx context.Context, text string) (notify.BroadcastResult, error) {
	f.text = text
	return f.result, nil
}

type botFixture struct {
	bot    *Bot
	api    *fakeAPI
	states *memoryStateStore
	repo   *memoryUserRepo
	bcast  *fakeBroadcaster
}

func newBotFixture(t *testing.T, cfg config.TelegramConfig) *botFixture {
	t.Helper()

	api := &fakeAPI{}
	states := newMemoryStateStore()
	repo := newMemoryUserRepo()
	bcast := &fakeBroadcaster{result: notify.BroadcastResult{Sent: 5, Failed: 1}}

	identity, err := users.NewService(repo)
	require.NoError(t, err)

	b, err := New(Params{
		Telegram: api,
		Identity: identity,
		Orders: &fakeOrdersService{stats: orders.Stats{
			TotalOrders:     10,
			CompletedOrders: 4,
			Revenue:         decimal.RequireFromString("99.50"),
		}},
		UserCount:   fixedCounter(7),
		Products:    fixedCounter(3),
		Broadcaster: bcast,
		States:      states,
		Config:      cfg,
	})
	require.NoError(t, err)

	return &botFixture{bot: b, api: api, states: states, repo: repo, bcast: bcast}
}

func startMessage(chatID, userID int64) *telegram.Message {
	return &telegram.Message{
		From: &telegram.User{ID: userID, Username: "alice", FirstName: "Alice"},
		Chat: telegram.Chat{ID: chatID},
		Text: "/start",
	}
}

func TestHandleStartRegistersUser(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{ShopWebAppURL: "https://shop.example"})
	d := fx.bot.Routes()

	update := telegram.Update{Message: startMessage(100, 42)}
	require.NoError(t, d.Dispatch(context.Background(), update))

	user, err := fx.repo.FindByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", *user.Username)

	require.Len(t, fx.api.sent, 1)
	assert.Equal(t, int64(100), fx.api.sent[0].ChatID)
	require.NotNil(t, fx.api.sent[0].ReplyMarkup)
}

func TestHandleStartIdempotentIdentity(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{})
	d := fx.bot.Routes()

	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: startMessage(100, 42)}))
	first, err := fx.repo.FindByTelegramID(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: startMessage(100, 42)}))
	second, err := fx.repo.FindByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAdminCommandRejectsNonAdmin(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{})
	d := fx.bot.Routes()

	msg := startMessage(100, 42)
	msg.Text = "/admin"
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: msg}))

	require.Len(t, fx.api.sent, 1)
	assert.Contains(t, fx.api.sent[0].Text, "⛔")
}

func TestAdminCommandShowsPanelForConfiguredAdmin(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{AdminChatID: 42})
	d := fx.bot.Routes()

	msg := startMessage(100, 42)
	msg.Text = "/admin"
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: msg}))

	require.Len(t, fx.api.sent, 1)
	assert.Contains(t, fx.api.sent[0].Text, "Admin panel")
	require.NotNil(t, fx.api.sent[0].ReplyMarkup)
}

func TestAdminStatsCallback(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{AdminChatID: 42})
	d := fx.bot.Routes()

	query := &telegram.CallbackQuery{
		ID:   "cb1",
		From: telegram.User{ID: 42},
		Message: &telegram.Message{
			MessageID: 55,
			Chat:      telegram.Chat{ID: 100},
		},
		Data: "admin_stats",
	}
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{CallbackQuery: query}))

	require.Len(t, fx.api.edited, 1)
	assert.Contains(t, fx.api.edited[0].Text, "Users: 7")
	assert.Contains(t, fx.api.edited[0].Text, "Products: 3")
	assert.Contains(t, fx.api.edited[0].Text, "$99.50")
	require.Len(t, fx.api.answered, 1)
	assert.Equal(t, "cb1", fx.api.answered[0].CallbackQueryID)
}

func TestBroadcastFlow(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{AdminChatID: 42})
	d := fx.bot.Routes()

	query := &telegram.CallbackQuery{
		ID:   "cb1",
		From: telegram.User{ID: 42},
		Message: &telegram.Message{
			MessageID: 55,
			Chat:      telegram.Chat{ID: 100},
		},
		Data: "admin_broadcast",
	}
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{CallbackQuery: query}))
	assert.Equal(t, StateAwaitingBroadcast, fx.states.states[100])

	msg := startMessage(100, 42)
	msg.Text = "🎉 Big sale this weekend!"
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: msg}))

	assert.Equal(t, "🎉 Big sale this weekend!", fx.bcast.text)
	assert.Empty(t, fx.states.states)

	last := fx.api.sent[len(fx.api.sent)-1]
	assert.Contains(t, last.Text, "Delivered: 5")
	assert.Contains(t, last.Text, "Failed: 1")
}

func TestBroadcastStateIgnoredForNonAdmin(t *testing.T) {
	fx := newBotFixture(t, config.TelegramConfig{})
	fx.states.states[100] = StateAwaitingBroadcast
	d := fx.bot.Routes()

	msg := startMessage(100, 42)
	msg.Text = "attempted broadcast"
	require.NoError(t, d.Dispatch(context.Background(), telegram.Update{Message: msg}))

	// State cleared, nothing broadcast.
	assert.Empty(t, fx.bcast.text)
	assert.Empty(t, fx.states.states)
}
