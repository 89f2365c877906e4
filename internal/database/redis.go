package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/maraton/maraton-api/internal/config"
)

// OpenRedis returns nil when Redis is disabled. Callers treat a nil client
// as "use the in-process fallback".
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
