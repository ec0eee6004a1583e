package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client guards stock-decrement idempotency keys. A key is claimed with
// SETNX so a retried decrement becomes a no-op instead of a second
// deduction. This is not a cache; nothing read-path ever touches Redis.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireIdempotencyKey claims key for the caller. Returns false when the
// key was already claimed, meaning the decrement already ran.
func (c *Client) AcquireIdempotencyKey(ctx context.Context, key string) (bool, error) {
	acquired, err := c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:stock:%s", key), "1", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency key claim failed: %w", err)
	}
	return acquired, nil
}

// ReleaseIdempotencyKey drops a claimed key so the caller may retry after
// a storage failure.
func (c *Client) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("idempotency:stock:%s", key)).Err()
}
