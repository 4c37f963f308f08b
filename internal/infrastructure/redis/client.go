package redis

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a new Redis client and pings it, retrying up to
// connectRetries extra times with exponential backoff.
func NewClient(ctx context.Context, redisURL string, connectRetries uint64) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries),
		ctx,
	)
	if err := backoff.Retry(func() error { return client.Ping(ctx).Err() }, b); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
