package bot

import (
	"context"
	"fmt"

	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/internal/users"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/db/models"
	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/telegram"
)

const (
	callbackAdminStats     = "admin_stats"
	callbackAdminBroadcast = "admin_broadcast"
	callbackAdminBack      = "admin_back"
)

// api is the outbound Bot API surface the handlers depend on.
type api interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
	EditMessageText(ctx context.Context, params telegram.EditMessageTextParams) error
	AnswerCallbackQuery(ctx context.Context, params telegram.AnswerCallbackQueryParams) error
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type productCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

type broadcaster interface {
	Broadcast(ctx context.Context, text string) (notify.BroadcastResult, error)
}

// Bot wires the chat front-end: identity resolution on first contact, the
// admin panel, and the broadcast flow.
type Bot struct {
	tg          api
	identity    *users.Service
	orders      orders.Service
	userCount   userCounter
	products    productCounter
	broadcaster broadcaster
	states      StateStore
	cfg         config.TelegramConfig
	logg        *logger.Logger
}

// Params collects the bot dependencies.
type Params struct {
	Telegram    api
	Identity    *users.Service
	Orders      orders.Service
	UserCount   userCounter
	Products    productCounter
	Broadcaster broadcaster
	States      StateStore
	Config      config.TelegramConfig
	Logger      *logger.Logger
}

// New builds the bot and validates its dependencies.
func New(params Params) (*Bot, error) {
	if params.Telegram == nil {
		return nil, fmt.Errorf("telegram api required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity service required")
	}
	if params.States == nil {
		return nil, fmt.Errorf("state store required")
	}
	return &Bot{
		tg:          params.Telegram,
		identity:    params.Identity,
		orders:      params.Orders,
		userCount:   params.UserCount,
		products:    params.Products,
		broadcaster: params.Broadcaster,
		states:      params.States,
		cfg:         params.Config,
		logg:        params.Logger,
	}, nil
}

// Routes registers every handler on a fresh dispatcher.
func (b *Bot) Routes() *Dispatcher {
	d := NewDispatcher()
	d.OnCommand("start", b.handleStart)
	d.OnCommand("admin", b.handleAdmin)
	d.OnCommand("broadcast", b.handleBroadcastCommand)
	d.OnCallbackPrefix("admin_", b.handleAdminCallback)
	d.OnMessage(b.awaitingBroadcast, b.handleBroadcastText)
	return d
}

func (b *Bot) handleStart(ctx context.Context, msg *telegram.Message) error {
	if msg.From == nil {
		return nil
	}
	if _, err := b.resolveSender(ctx, msg.From); err != nil {
		return err
	}

	text := "👋 Welcome to <b>UNIVERSAL SHOP</b>!\n\n" +
		"Here you will find:\n" +
		"🎮 <b>Games</b> — top-ups, accounts, items\n" +
		"📱 <b>Apps</b> — Telegram services\n\n" +
		"Open the mini app to start shopping:"

	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🛒 Open shop", WebApp: &telegram.WebAppInfo{URL: b.cfg.ShopWebAppURL}}},
			{{Text: "💬 Support chat", URL: b.cfg.SupportChatURL}},
		},
	}

	_, err := b.tg.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ParseMode:   telegram.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

func (b *Bot) handleAdmin(ctx context.Context, msg *telegram.Message) error {
	user, err := b.resolveSender(ctx, msg.From)
	if err != nil {
		return err
	}
	if !b.isAdmin(user) {
		_, err := b.tg.SendMessage(ctx, telegram.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "⛔ You do not have access to this command.",
		})
		return err
	}

	_, err = b.tg.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        "<b>Admin panel</b>\nChoose an action:",
		ParseMode:   telegram.ParseModeHTML,
		ReplyMarkup: adminKeyboard(),
	})
	return err
}

func (b *Bot) handleAdminCallback(ctx context.Context, query *telegram.CallbackQuery) error {
	user, err := b.resolveSender(ctx, &query.From)
	if err != nil {
		return err
	}
	if !b.isAdmin(user) {
		return b.tg.AnswerCallbackQuery(ctx, telegram.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            "⛔ No access",
		})
	}
	if query.Message == nil {
		return b.tg.AnswerCallbackQuery(ctx, telegram.AnswerCallbackQueryParams{CallbackQueryID: query.ID})
	}

	chatID := query.Message.Chat.ID
	switch query.Data {
	case callbackAdminStats:
		text, err := b.statsText(ctx)
		if err != nil {
			return err
		}
		if err := b.tg.EditMessageText(ctx, telegram.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: query.Message.MessageID,
			Text:      text,
			ParseMode: telegram.ParseModeHTML,
		}); err != nil {
			return err
		}
	case callbackAdminBroadcast:
		if err := b.states.Set(ctx, chatID, StateAwaitingBroadcast); err != nil {
			return err
		}
		if _, err := b.tg.SendMessage(ctx, telegram.SendMessageParams{
			ChatID: chatID,
			Text:   "📢 Send the message you want to broadcast to all users.",
		}); err != nil {
			return err
		}
	case callbackAdminBack:
		if err := b.tg.EditMessageText(ctx, telegram.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   query.Message.MessageID,
			Text:        "<b>Admin panel</b>\nChoose an action:",
			ParseMode:   telegram.ParseModeHTML,
			ReplyMarkup: adminKeyboard(),
		}); err != nil {
			return err
		}
	}

	return b.tg.AnswerCallbackQuery(ctx, telegram.AnswerCallbackQueryParams{CallbackQueryID: query.ID})
}

func (b *Bot) handleBroadcastCommand(ctx context.Context, msg *telegram.Message) error {
	user, err := b.resolveSender(ctx, msg.From)
	if err != nil {
		return err
	}
	if !b.isAdmin(user) {
		return nil
	}

	if err := b.states.Set(ctx, msg.Chat.ID, StateAwaitingBroadcast); err != nil {
		return err
	}
	_, err = b.tg.SendMessage(ctx, telegram.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   "📢 Send the message you want to broadcast to all users.",
	})
	return err
}

// awaitingBroadcast matches plain messages in chats whose stored state is
// the broadcast prompt.
func (b *Bot) awaitingBroadcast(ctx context.Context, msg *telegram.Message) bool {
	state, err := b.states.Get(ctx, msg.Chat.ID)
	if err != nil {
		if b.logg != nil {
			b.logg.Error(ctx, "chat state lookup failed", err)
		}
		return false
	}
	return state == StateAwaitingBroadcast
}

func (b *Bot) handleBroadcastText(ctx context.Context, msg *telegram.Message) error {
	user, err := b.resolveSender(ctx, msg.From)
	if err != nil {
		return err
	}
	if !b.isAdmin(user) {
		return b.states.Clear(ctx, msg.Chat.ID)
	}

	if err := b.states.Clear(ctx, msg.Chat.ID); err != nil {
		return err
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	result, err := b.broadcaster.Broadcast(ctx, text)
	if err != nil {
		return err
	}

	report := fmt.Sprintf("✅ Broadcast finished!\n✅ Delivered: %d\n❌ Failed: %d", result.Sent, result.Failed)
	_, err = b.tg.SendMessage(ctx, telegram.SendMessageParams{ChatID: msg.Chat.ID, Text: report})
	return err
}

func (b *Bot) statsText(ctx context.Context) (string, error) {
	stats, err := b.orders.Stats(ctx)
	if err != nil {
		return "", err
	}
	userCount, err := b.userCount.Count(ctx)
	if err != nil {
		return "", err
	}
	productCount, err := b.products.CountProducts(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"<b>📊 Shop statistics</b>\n\n"+
			"👥 Users: %d\n"+
			"📦 Products: %d\n"+
			"💰 Revenue: $%s\n"+
			"🛒 Orders: %d\n"+
			"✅ Completed: %d",
		userCount,
		productCount,
		stats.Revenue.StringFixed(2),
		stats.TotalOrders,
		stats.CompletedOrders,
	), nil
}

func adminKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "📊 Statistics", CallbackData: callbackAdminStats}},
			{{Text: "📢 Broadcast", CallbackData: callbackAdminBroadcast}},
			{{Text: "🔙 Back", CallbackData: callbackAdminBack}},
		},
	}
}

// resolveSender runs identity resolution for the update's author, creating
// the user on first contact.
func (b *Bot) resolveSender(ctx context.Context, from *telegram.User) (*models.User, error) {
	if from == nil {
		return nil, fmt.Errorf("update has no sender")
	}
	return b.identity.ResolveOrCreate(ctx, from.ID, profileOf(from))
}

// isAdmin accepts either the configured admin chat or the persisted flag.
func (b *Bot) isAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if b.cfg.AdminChatID != 0 && user.TelegramID == b.cfg.AdminChatID {
		return true
	}
	return user.IsAdmin
}

func profileOf(from *telegram.User) users.Profile {
	return users.Profile{
		Username:  optional(from.Username),
		FirstName: optional(from.FirstName),
		LastName:  optional(from.LastName),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
