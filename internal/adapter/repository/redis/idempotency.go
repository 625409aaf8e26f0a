package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// pendingMarker locks a key while the first request is still running.
const pendingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. Keys live under
// prefix + "idempotency:". m may be nil.
func NewIdempotencyStore(client *redis.Client, prefix string, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  prefix + "idempotency:",
		metrics: m,
	}
}

// CheckAndSet atomically checks if key exists, sets if not. A nil response
// stores the pending marker.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	var value any = pendingMarker
	if response != nil {
		value = response
	}

	start := time.Now()
	set, err := s.client.SetNX(ctx, s.prefix+key, value, ttl).Result()
	observe(s.metrics, "setnx", start, err)
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	start = time.Now()
	existing, err := s.client.Get(ctx, s.prefix+key).Bytes()
	observe(s.metrics, "get", start, ignoreNil(err))
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	return true, existing, nil
}

// Update replaces the value of key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.client.Set(ctx, s.prefix+key, response, ttl).Err()
	observe(s.metrics, "set", start, err)
	return err
}

// Release drops a pending key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Del(ctx, s.prefix+key).Err()
	observe(s.metrics, "del", start, err)
	return err
}

func ignoreNil(err error) error {
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
