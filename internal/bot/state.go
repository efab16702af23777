package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/universalshop/shop-backend/pkg/redis"
)

// Chat conversation states. A chat with no stored state is idle.
const (
	StateAwaitingBroadcast = "awaiting_broadcast"
)

const stateTTL = 15 * time.Minute

// StateStore persists per-chat conversation state between updates.
type StateStore interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, state string) error
	Clear(ctx context.Context, chatID int64) error
}

// RedisStateStore keeps chat state in redis with a short TTL so abandoned
// flows expire on their own.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore wires a redis-backed chat state store.
func NewRedisStateStore(client *redis.Client) (*RedisStateStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStateStore{client: client}, nil
}

func (s *RedisStateStore) Get(ctx context.Context, chatID int64) (string, error) {
	state, err := s.client.Get(ctx, s.client.ChatStateKey(chatID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return state, nil
}

func (s *RedisStateStore) Set(ctx context.Context, chatID int64, state string) error {
	return s.client.Set(ctx, s.client.ChatStateKey(chatID), state, stateTTL)
}

func (s *RedisStateStore) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.client.ChatStateKey(chatID))
}
