package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a new Redis client.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Connect calls NewClient until Redis answers or maxElapsed has passed.
// An unparsable URL fails immediately.
func Connect(ctx context.Context, redisURL string, maxElapsed time.Duration, log zerolog.Logger) (*redis.Client, error) {
	if _, err := redis.ParseURL(redisURL); err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxElapsed

	attempt := 0

	return backoff.RetryWithData(func() (*redis.Client, error) {
		attempt++

		client, err := NewClient(ctx, redisURL)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("redis not reachable, retrying")
			return nil, err
		}

		return client, nil
	}, backoff.WithContext(b, ctx))
}
