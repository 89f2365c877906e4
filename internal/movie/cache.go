package movie

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/metrics"
)

const cachePrefix = "maraton:movies:"

// Cache is a JSON read-through cache in Redis. A nil *Cache, or one without a
// client, is a no-op so the service works with Redis disabled.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// get decodes key into dst and reports whether it was a hit
func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err.Error())
		}
		metrics.RecordCacheLookup("movies", false)
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err.Error())
		metrics.RecordCacheLookup("movies", false)
		return false
	}

	metrics.RecordCacheLookup("movies", true)
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, cachePrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err.Error())
	}
}

// Invalidate drops every cached catalog entry
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
