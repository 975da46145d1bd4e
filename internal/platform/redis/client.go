package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/config"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/sentinel"
)

// Client wraps the go-redis client. It backs both the change-feed pub/sub
// channels and the optional boot cache, so one connection pool serves both.
type Client struct {
	*redis.Client
}

// New creates a redis client from configuration. Returns nil if the URL is
// empty (redis not configured - the feed and boot cache then run in-memory
// or disabled).
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", errors.Join(sentinel.ErrUnavailable, err))
	}

	return &Client{Client: client}, nil
}

// Health checks if the redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
