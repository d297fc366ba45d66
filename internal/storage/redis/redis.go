// Package redis implements the Redis session-state backend. It is the recommended
// backend for multi-instance deployments: session state written by one gateway
// instance is immediately visible to the others, so a load balancer needs no
// sticky sessions.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

// keyPrefix namespaces all gateway keys inside a possibly shared Redis database.
const keyPrefix = "fc:session:"

func init() {
	storage.Register("redis", func(cfg *config.Config) (storage.Backend, error) {
		return New(&cfg.Redis)
	})
}

// RedisBackend implements the Backend interface over a Redis database.
type RedisBackend struct {
	client *goredis.Client
}

// New creates a Redis session backend and verifies connectivity
func New(cfg *config.RedisConfig) (*RedisBackend, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisBackend{client: client}, nil
}

// NewWithClient wraps an existing Redis client; used by tests.
func NewWithClient(client *goredis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// RedisKey maps a storage key to its namespaced Redis key.
func RedisKey(key string) string {
	return keyPrefix + key
}

// Save stores value under key, replacing any existing value
func (b *RedisBackend) Save(ctx context.Context, key string, value []byte) error {
	// No per-key TTL: lifetime is managed by the session sweeper so local,
	// redis, and postgres backends all share eviction semantics.
	if err := b.client.Set(ctx, RedisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

// Load retrieves the value stored under key
func (b *RedisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, RedisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	return data, nil
}

// Delete removes the value stored under key
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, RedisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// Keys lists all stored keys beginning with prefix
func (b *RedisBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, RedisKey(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan session keys: %w", err)
	}
	return keys, nil
}
