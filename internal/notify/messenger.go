package notify

import (
	"context"
	"fmt"

	"github.com/universalshop/shop-backend/pkg/telegram"
)

// TelegramMessenger adapts the bot API client to the Messenger surface.
// Everything notify sends is HTML-formatted.
type TelegramMessenger struct {
	client *telegram.Client
}

func NewTelegramMessenger(client *telegram.Client) (*TelegramMessenger, error) {
	if client == nil {
		return nil, fmt.Errorf("telegram client required")
	}
	return &TelegramMessenger{client: client}, nil
}

func (m *TelegramMessenger) Send(ctx context.Context, chatID int64, text string) error {
	_, err := m.client.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: telegram.ParseModeHTML,
	})
	return err
}
