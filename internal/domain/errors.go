package domain

import "errors"

var (
	// Evaluation errors
	ErrMissingEvaluationContext = errors.New("missing evaluation context")
	ErrMissingExchangeRate      = errors.New("missing exchange rate")
	ErrDivideByZero             = errors.New("division by zero")

	// Distribution errors
	ErrImpossibleDistribution = errors.New("impossible distribution")

	// Construction errors
	ErrIncompatibleRounding  = errors.New("rounding strategy is incompatible with distribution unit")
	ErrInvalidContextBuilder = errors.New("invalid evaluation context builder")
	ErrInvalidPrecision      = errors.New("precision must be positive")
	ErrInvalidCurrency       = errors.New("invalid currency")
)
