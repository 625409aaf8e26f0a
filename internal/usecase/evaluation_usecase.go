package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/logger"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// EvaluationUseCase evaluates money expressions.
type EvaluationUseCase struct {
	resolver *ContextResolver
	idGen    IDGenerator
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewEvaluationUseCase creates a new EvaluationUseCase.
func NewEvaluationUseCase(resolver *ContextResolver, idGen IDGenerator, m *metrics.Metrics, log zerolog.Logger) *EvaluationUseCase {
	return &EvaluationUseCase{
		resolver: resolver,
		idGen:    idGen,
		metrics:  m,
		log:      log,
	}
}

// EvaluateInput represents input for evaluating an expression.
type EvaluateInput struct {
	Expression domain.Expression
	Context    *ContextInput
}

// EvaluationResult is the outcome of one evaluation.
type EvaluationResult struct {
	ID         string
	Money      domain.Money
	Expression string
}

// Evaluate evaluates the expression in the described context.
func (uc *EvaluationUseCase) Evaluate(ctx context.Context, input EvaluateInput) (*EvaluationResult, error) {
	start := time.Now()
	id := uc.idGen.Generate()
	log := uc.log.With().Str("evaluation_id", id).Logger()

	money, err := uc.evaluate(ctx, input)
	uc.record(start, err)

	if err != nil {
		log.Warn().Err(err).Str("error_type", errorType(err)).Msg("evaluation failed")
		return nil, err
	}

	result := &EvaluationResult{
		ID:         id,
		Money:      money,
		Expression: domain.ToHumanReadable(input.Expression),
	}

	log.Debug().
		Str("expression", result.Expression).
		Object("result", logger.Money(money)).
		Dur("duration", time.Since(start)).
		Msg("expression evaluated")

	return result, nil
}

func (uc *EvaluationUseCase) evaluate(ctx context.Context, input EvaluateInput) (domain.Money, error) {
	if input.Expression == nil {
		return domain.Money{}, fmt.Errorf("%w: expression is required", ErrInvalidInput)
	}

	evalCtx, err := uc.resolver.Resolve(ctx, input.Context)
	if err != nil {
		return domain.Money{}, err
	}

	return domain.Evaluate(input.Expression, evalCtx)
}

func (uc *EvaluationUseCase) record(start time.Time, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		uc.metrics.Evaluations.WithLabelValues(metrics.OutcomeError).Inc()
		uc.metrics.EvaluationErrors.WithLabelValues(errorType(err)).Inc()
		return
	}
	uc.metrics.Evaluations.WithLabelValues(metrics.OutcomeSuccess).Inc()
}
