package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client wraps the Redis connection holding live session carts. Each
// cart is one JSON snapshot under a fixed per-session key, rewritten
// whole after every mutation.
type Client struct {
	rdb     *redis.Client
	cartTTL time.Duration
}

// NewClient creates a new Redis client for the session cart store
func NewClient(addr, password string, db int, cartTTL time.Duration) (*Client, error) {
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

	return &Client{rdb: rdb, cartTTL: cartTTL}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// SaveCart writes the serialized cart snapshot for a session,
// refreshing its TTL.
func (c *Client) SaveCart(ctx context.Context, sessionID string, snapshot []byte) error {
	if err := c.rdb.Set(ctx, cartKey(sessionID), snapshot, c.cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// GetCart reads the serialized cart snapshot for a session. A missing
// key returns (nil, nil) so callers can fall back to other stores.
func (c *Client) GetCart(ctx context.Context, sessionID string) ([]byte, error) {
	snapshot, err := c.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	return snapshot, nil
}

// DeleteCart removes the session's cart snapshot
func (c *Client) DeleteCart(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartKey(sessionID)).Err()
}
