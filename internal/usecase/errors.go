package usecase

import (
	"errors"

	"github.com/iho/gomoney/internal/domain"
)

// ErrInvalidInput is returned for requests that are malformed before any
// money semantics apply.
var ErrInvalidInput = errors.New("invalid input")

// errorType labels err for metrics and logs.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingEvaluationContext):
		return "missing_evaluation_context"
	case errors.Is(err, domain.ErrMissingExchangeRate):
		return "missing_exchange_rate"
	case errors.Is(err, domain.ErrImpossibleDistribution):
		return "impossible_distribution"
	case errors.Is(err, domain.ErrIncompatibleRounding):
		return "incompatible_rounding"
	case errors.Is(err, domain.ErrInvalidContextBuilder):
		return "invalid_context"
	case errors.Is(err, domain.ErrInvalidPrecision):
		return "invalid_precision"
	case errors.Is(err, domain.ErrDivideByZero):
		return "divide_by_zero"
	case errors.Is(err, domain.ErrInvalidCurrency):
		return "invalid_currency"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
