package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// RateStore implements usecase.RateRepository using a single Redis hash.
// Every field is "SOURCE:TARGET" and holds a JSON encoded rate.
type RateStore struct {
	client  *redis.Client
	key     string
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRateStore creates a new RateStore. m may be nil.
func NewRateStore(client *redis.Client, prefix string, m *metrics.Metrics) *RateStore {
	return &RateStore{
		client:  client,
		key:     prefix + "rates",
		metrics: m,
		now:     time.Now,
	}
}

type storedRate struct {
	Rate         decimal.Decimal `json:"rate"`
	SourceDigits int             `json:"source_digits"`
	TargetDigits int             `json:"target_digits"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Save stores or replaces the rate of a pair.
func (s *RateStore) Save(ctx context.Context, rate domain.ExchangeRate) error {
	value, err := json.Marshal(storedRate{
		Rate:         rate.Rate,
		SourceDigits: rate.Source.MinorUnitDigits,
		TargetDigits: rate.Target.MinorUnitDigits,
		UpdatedAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode rate: %w", err)
	}

	start := time.Now()
	err = s.client.HSet(ctx, s.key, field(rate.RatePair), value).Err()
	observe(s.metrics, "hset", start, err)
	if err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}

	return nil
}

// Delete removes the rate of a pair.
func (s *RateStore) Delete(ctx context.Context, pair domain.RatePair) error {
	start := time.Now()
	removed, err := s.client.HDel(ctx, s.key, field(pair)).Result()
	observe(s.metrics, "hdel", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete rate: %w", err)
	}

	if removed == 0 {
		return fmt.Errorf("%w: no exchange rate for %s => %s", domain.ErrMissingExchangeRate, pair.Source.Code, pair.Target.Code)
	}

	return nil
}

// List returns all stored rates in no particular order.
func (s *RateStore) List(ctx context.Context) ([]domain.ExchangeRate, error) {
	start := time.Now()
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	observe(s.metrics, "hgetall", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}

	rates := make([]domain.ExchangeRate, 0, len(fields))
	for f, value := range fields {
		rate, err := decodeRate(f, value)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}

	return rates, nil
}

func field(pair domain.RatePair) string {
	return pair.Source.Code + ":" + pair.Target.Code
}

func decodeRate(f, value string) (domain.ExchangeRate, error) {
	sourceCode, targetCode, ok := strings.Cut(f, ":")
	if !ok {
		return domain.ExchangeRate{}, fmt.Errorf("malformed rate field %q", f)
	}

	var stored storedRate
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("malformed rate %q: %w", f, err)
	}

	source, err := domain.NewCurrency(sourceCode, stored.SourceDigits)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("malformed rate %q: %w", f, err)
	}

	target, err := domain.NewCurrency(targetCode, stored.TargetDigits)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("malformed rate %q: %w", f, err)
	}

	return domain.ExchangeRate{
		RatePair: domain.RatePair{Source: source, Target: target},
		Rate:     stored.Rate,
	}, nil
}
