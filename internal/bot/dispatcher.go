package bot

import (
	"context"
	"strings"

	"github.com/universalshop/shop-backend/pkg/telegram"
)

// CommandHandler handles a /command message.
type CommandHandler func(ctx context.Context, msg *telegram.Message) error

// CallbackHandler handles an inline keyboard button press.
type CallbackHandler func(ctx context.Context, query *telegram.CallbackQuery) error

// MessageHandler handles a plain (non-command) message.
type MessageHandler func(ctx context.Context, msg *telegram.Message) error

// MessagePredicate decides whether a message handler applies to a message.
type MessagePredicate func(ctx context.Context, msg *telegram.Message) bool

type callbackRoute struct {
	prefix  string
	handler CallbackHandler
}

type messageRoute struct {
	match   MessagePredicate
	handler MessageHandler
}

// Dispatcher routes incoming updates to an explicit registry of typed
// handlers: commands by name, callbacks by data prefix, plain messages by
// predicate in registration order.
type Dispatcher struct {
	commands  map[string]CommandHandler
	callbacks []callbackRoute
	messages  []messageRoute
}

// NewDispatcher returns an empty handler registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]CommandHandler)}
}

// OnCommand registers a handler for /name messages.
func (d *Dispatcher) OnCommand(name string, handler CommandHandler) {
	d.commands[name] = handler
}

// OnCallbackPrefix registers a handler for callback data starting with prefix.
func (d *Dispatcher) OnCallbackPrefix(prefix string, handler CallbackHandler) {
	d.callbacks = append(d.callbacks, callbackRoute{prefix: prefix, handler: handler})
}

// OnMessage registers a handler for plain messages matching the predicate.
func (d *Dispatcher) OnMessage(match MessagePredicate, handler MessageHandler) {
	d.messages = append(d.messages, messageRoute{match: match, handler: handler})
}

// Dispatch routes one update to the first matching handler. Unmatched
// updates are silently dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, update telegram.Update) error {
	switch {
	case update.Message != nil:
		return d.dispatchMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return d.dispatchCallback(ctx, update.CallbackQuery)
	default:
		return nil
	}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, msg *telegram.Message) error {
	if command, ok := parseCommand(msg.Text); ok {
		if handler, registered := d.commands[command]; registered {
			return handler(ctx, msg)
		}
		return nil
	}
	for _, route := range d.messages {
		if route.match(ctx, msg) {
			return route.handler(ctx, msg)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, query *telegram.CallbackQuery) error {
	for _, route := range d.callbacks {
		if strings.HasPrefix(query.Data, route.prefix) {
			return route.handler(ctx, query)
		}
	}
	return nil
}

// parseCommand extracts the command name from "/name" or "/name@botname".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0]
	command = strings.TrimPrefix(command, "/")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", false
	}
	return command, true
}
