package redisclient

import (
	"context"
	"fmt"

	"supportdesk/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewClient creates the Redis client used for the conversation-history
// cache and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
