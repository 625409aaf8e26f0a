package usecase

import (
	"context"
	"time"

	"github.com/iho/gomoney/internal/domain"
)

// RateRepository stores exchange rates.
type RateRepository interface {
	Save(ctx context.Context, rate domain.ExchangeRate) error
	Delete(ctx context.Context, pair domain.RatePair) error
	List(ctx context.Context) ([]domain.ExchangeRate, error)
}

// CurrencyProvider resolves ISO 4217 currency metadata.
type CurrencyProvider interface {
	Lookup(code string) (domain.CurrencyInfo, error)
	Currency(code string) (domain.Currency, error)
	All() ([]domain.CurrencyInfo, error)
}

// BankSource supplies a snapshot of the stored exchange rates.
type BankSource interface {
	Bank(ctx context.Context) (domain.Bank, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
