package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/logger"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// DistributionUseCase splits money into fair parts.
type DistributionUseCase struct {
	resolver *ContextResolver
	idGen    IDGenerator
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewDistributionUseCase creates a new DistributionUseCase.
func NewDistributionUseCase(resolver *ContextResolver, idGen IDGenerator, m *metrics.Metrics, log zerolog.Logger) *DistributionUseCase {
	return &DistributionUseCase{
		resolver: resolver,
		idGen:    idGen,
		metrics:  m,
		log:      log,
	}
}

// DistributeInput represents input for a distribution.
type DistributeInput struct {
	Total     domain.Expression
	Factors   []int
	Precision decimal.NullDecimal
	Context   *ContextInput
}

// DistributionResult holds the evaluated parts in factor order.
type DistributionResult struct {
	ID    string
	Total domain.Money
	Parts []domain.Money
}

// Distribute evaluates every part of the distribution of input.Total.
func (uc *DistributionUseCase) Distribute(ctx context.Context, input DistributeInput) (*DistributionResult, error) {
	id := uc.idGen.Generate()
	log := uc.log.With().Str("distribution_id", id).Logger()

	result, err := uc.distribute(ctx, input)
	if uc.metrics != nil {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		uc.metrics.Distributions.WithLabelValues(outcome).Inc()
	}

	if err != nil {
		log.Warn().Err(err).Str("error_type", errorType(err)).Msg("distribution failed")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DistributionParts.Observe(float64(len(result.Parts)))
	}

	result.ID = id
	log.Debug().
		Object("total", logger.Money(result.Total)).
		Array("parts", logger.Monies(result.Parts)).
		Msg("money distributed")

	return result, nil
}

func (uc *DistributionUseCase) distribute(ctx context.Context, input DistributeInput) (*DistributionResult, error) {
	if input.Total == nil {
		return nil, fmt.Errorf("%w: total is required", ErrInvalidInput)
	}

	if len(input.Factors) > MaxDistributionParts {
		return nil, fmt.Errorf("%w: at most %d parts are allowed, got %d", ErrInvalidInput, MaxDistributionParts, len(input.Factors))
	}

	parts, err := domain.Distribute(input.Total, input.Factors, input.Precision)
	if err != nil {
		return nil, err
	}

	evalCtx, err := uc.resolver.Resolve(ctx, input.Context)
	if err != nil {
		return nil, err
	}

	total, err := domain.Evaluate(input.Total, evalCtx)
	if err != nil {
		return nil, err
	}

	result := &DistributionResult{
		Total: total,
		Parts: make([]domain.Money, len(parts)),
	}

	for i, part := range parts {
		money, err := domain.Evaluate(part, evalCtx)
		if err != nil {
			return nil, err
		}
		result.Parts[i] = money
	}

	return result, nil
}
