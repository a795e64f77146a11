package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sleepycare/backend/pkg/logger"
)

// Well-known cache keys for the public catalog list endpoints.
const (
	KeyProducts   = "catalog:products"
	KeyCategories = "catalog:categories"
	KeyPartners   = "catalog:partners"

	DefaultTTL = 5 * time.Minute
)

// Cache is an optional Redis-backed read cache for public catalog
// responses. A nil client disables it: every operation becomes a no-op
// miss, so callers never branch on availability. Cache failures are
// logged and treated as misses; Redis is never load-bearing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps a Redis client. Pass nil to disable caching.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

// Get returns the cached payload for key, if any.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("cache get %s: %v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set stores a payload under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warnf("cache set %s: %v", key, err)
	}
}

// Invalidate drops the given keys, e.g. after an admin catalog write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warnf("cache invalidate %v: %v", keys, err)
	}
}
