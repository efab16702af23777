package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universalshop/shop-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.TelegramConfig{
		BotToken:   "test-token",
		APIBaseURL: server.URL,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), config.TelegramConfig{}, nil)
	require.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)

		var params SendMessageParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, int64(100), params.ChatID)
		assert.Equal(t, "hello", params.Text)

		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": Message{MessageID: 7, Chat: Chat{ID: 100}, Text: "hello"},
		})
	})

	msg, err := client.SendMessage(context.Background(), SendMessageParams{ChatID: 100, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.MessageID)
}

func TestSendMessageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"error_code":  403,
			"description": "Forbidden: bot was blocked by the user",
		})
	})

	_, err := client.SendMessage(context.Background(), SendMessageParams{ChatID: 100, Text: "hello"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.ErrorCode)
	assert.Equal(t, "sendMessage", apiErr.Method)
}

func TestGetUpdatesPassesOffset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(12), body["offset"])

		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": []Update{
				{UpdateID: 12, Message: &Message{Text: "/start", Chat: Chat{ID: 1}}},
				{UpdateID: 13, Message: &Message{Text: "hi", Chat: Chat{ID: 1}}},
			},
		})
	})

	updates, err := client.GetUpdates(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, int64(13), updates[1].UpdateID)
}

func TestDeleteWebhookDropsPending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["drop_pending_updates"])

		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
	})

	require.NoError(t, client.DeleteWebhook(context.Background()))
}
