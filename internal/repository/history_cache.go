package repository

import (
	"context"
	"encoding/json"
	"time"

	"supportdesk/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HistoryCache keeps the recent tail of each session transcript in a Redis
// list so prompt assembly does not hit Postgres on every turn. Postgres
// stays authoritative; the cache is best-effort.
type HistoryCache struct {
	client    *redis.Client
	keyPrefix string
	maxLen    int64
	ttl       time.Duration
	logger    *zap.Logger
}

func NewHistoryCache(client *redis.Client, logger *zap.Logger) *HistoryCache {
	return &HistoryCache{
		client:    client,
		keyPrefix: "supportdesk:history:",
		maxLen:    50,
		ttl:       24 * time.Hour,
		logger:    logger,
	}
}

func (c *HistoryCache) key(sessionID string) string {
	return c.keyPrefix + sessionID
}

// Push appends a turn to the session's cached history and trims the list.
func (c *HistoryCache) Push(ctx context.Context, msg *models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := c.key(msg.SessionID)
	pipe := c.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -c.maxLen, -1)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to limit cached turns, most-recent-last. A nil slice
// with nil error means a cache miss.
func (c *HistoryCache) Recent(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	items, err := c.client.LRange(ctx, c.key(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	messages := make([]*models.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}
