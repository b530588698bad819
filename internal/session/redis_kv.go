package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisKV persists envelopes in Redis. Every write refreshes the key's TTL so
// idle sessions expire on their own.
type RedisKV struct {
	client redisCmdable
	ttl    time.Duration
}

// NewRedisKV creates a Redis-backed KV. A zero ttl keeps keys forever.
func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read session key: %w", err)
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key: %w", err)
	}
	return nil
}
