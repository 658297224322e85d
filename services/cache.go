package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache holds computed daily summaries so dashboard polling does not
// recompute (or re-decrypt) the snapshot on every request. Entries are
// short-lived and dropped on every mutation.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisSummaryCache struct {
	client *redis.Client
}

func NewRedisSummaryCache(addr string) *RedisSummaryCache {
	return &RedisSummaryCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *RedisSummaryCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisSummaryCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// NoopCache is used when no REDIS_URL is configured.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (NoopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }

func (NoopCache) Delete(ctx context.Context, key string) error { return nil }
