package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/logger"
)

// ParseModeHTML is the only parse mode the shop uses for outbound text.
const ParseModeHTML = "HTML"

var errTokenRequired = errors.New("telegram bot token is required")

// Client is a minimal Bot API client covering the methods the shop needs.
type Client struct {
	token       string
	baseURL     string
	httpClient  *http.Client
	pollTimeout time.Duration
}

// APIError carries the Bot API error payload for a failed call.
type APIError struct {
	Method      string
	ErrorCode   int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.ErrorCode, e.Description)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// NewClient validates the token and builds a Bot API client.
func NewClient(ctx context.Context, cfg config.TelegramConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errTokenRequired
	}

	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	if logg != nil {
		logg.Info(ctx, "telegram client initialized")
	}

	return &Client{
		token:       token,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: sendTimeout},
		pollTimeout: pollTimeout,
	}, nil
}

// SendMessage delivers a text message to the given chat.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageText replaces a previously sent message's text and keyboard.
func (c *Client) EditMessageText(ctx context.Context, params EditMessageTextParams) error {
	return c.call(ctx, "editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges an inline button press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, params AnswerCallbackQueryParams) error {
	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// DeleteWebhook clears any webhook so long polling can take over. Pending
// updates accumulated while the bot was down are dropped.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	body := map[string]any{"drop_pending_updates": true}
	return c.call(ctx, "deleteWebhook", body, nil)
}

// GetUpdates long-polls the Bot API for new updates past offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	body := map[string]any{
		"offset":  offset,
		"timeout": int(c.pollTimeout.Seconds()),
	}

	// long poll needs headroom past the server-side timeout
	pollClient := &http.Client{Timeout: c.pollTimeout + 10*time.Second}

	var updates []Update
	if err := c.callWith(ctx, pollClient, "getUpdates", body, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, body any, result any) error {
	return c.callWith(ctx, c.httpClient, method, body, result)
}

func (c *Client) callWith(ctx context.Context, client *http.Client, method string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !parsed.OK {
		return &APIError{
			Method:      method,
			ErrorCode:   parsed.ErrorCode,
			Description: parsed.Description,
		}
	}
	if result != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}
