package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxDistributionParts bounds the number of factors of one distribution
	MaxDistributionParts = 1000
)
