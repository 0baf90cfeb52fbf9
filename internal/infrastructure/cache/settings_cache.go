// Package cache provides read-through caching of settings in Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"backoffice/internal/domain/catalogs/settings"
	"backoffice/pkg/logger"
)

const keyPrefix = "backoffice:settings:"

// Store is the subset of the Redis client used by the cache.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SettingsCache wraps a settings.Repository with a Redis read-through cache.
// Redis failures degrade to the repository; they are logged, never returned.
type SettingsCache struct {
	store Store
	repo  settings.Repository
	ttl   time.Duration
}

var _ settings.Repository = (*SettingsCache)(nil)

func NewSettingsCache(store Store, repo settings.Repository, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsCache{store: store, repo: repo, ttl: ttl}
}

// Get returns the cached value of key, loading it from the repository on a miss.
// Unset keys are not cached.
func (c *SettingsCache) Get(ctx context.Context, key string) (string, bool, error) {
	cached, err := c.store.Get(ctx, keyPrefix+key).Result()
	switch {
	case err == nil:
		return cached, true, nil
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "settings cache read failed", "key", key, "error", err)
	}

	value, ok, err := c.repo.Get(ctx, key)
	if err != nil || !ok {
		return value, ok, err
	}
	if err := c.store.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "settings cache write failed", "key", key, "error", err)
	}
	return value, true, nil
}

// Invalidate drops key so the next Get reads the repository.
func (c *SettingsCache) Invalidate(ctx context.Context, key string) error {
	return c.store.Del(ctx, keyPrefix+key).Err()
}

// NewRedisClient opens a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
