package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
)

// ContextInput describes an evaluation context with currency codes.
type ContextInput struct {
	TargetCurrency   string
	Rounding         *RoundingInput
	DistributionUnit decimal.NullDecimal
	ExchangeRates    []ExchangeRateInput
	UseRateStore     bool
}

// RoundingInput selects a rounding strategy. Without a precision the minor
// unit of the target currency is used.
type RoundingInput struct {
	Mode      string
	Precision decimal.NullDecimal
}

// ExchangeRateInput is the rate from Source into the target currency.
type ExchangeRateInput struct {
	Source string
	Rate   decimal.Decimal
}

// ContextResolver turns a ContextInput into a domain evaluation context.
type ContextResolver struct {
	currencies    CurrencyProvider
	banks         BankSource
	defaultTarget string
}

// NewContextResolver creates a ContextResolver. defaultTarget is used when
// an input names no target currency; it may be empty.
func NewContextResolver(currencies CurrencyProvider, banks BankSource, defaultTarget string) *ContextResolver {
	return &ContextResolver{
		currencies:    currencies,
		banks:         banks,
		defaultTarget: defaultTarget,
	}
}

// Resolve builds the context described by in. A nil input means no context.
func (r *ContextResolver) Resolve(ctx context.Context, in *ContextInput) (*domain.EvaluationContext, error) {
	if in == nil {
		return nil, nil
	}

	builder := domain.NewContextBuilder()

	var target *domain.Currency
	code := in.TargetCurrency
	if code == "" {
		code = r.defaultTarget
	}
	if code != "" {
		c, err := r.currencies.Currency(code)
		if err != nil {
			return nil, err
		}
		target = &c
		builder = builder.WithTargetCurrency(c)
	}

	if in.Rounding != nil {
		strategy, err := roundingStrategy(*in.Rounding, target)
		if err != nil {
			return nil, err
		}
		builder = builder.WithRounding(strategy)
	}

	if in.DistributionUnit.Valid {
		builder = builder.WithSmallestDistributionUnit(in.DistributionUnit.Decimal)
	}

	for _, rate := range in.ExchangeRates {
		source, err := r.currencies.Currency(rate.Source)
		if err != nil {
			return nil, err
		}
		if !rate.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: exchange rate for %s must be positive, got %s", ErrInvalidInput, source.Code, rate.Rate)
		}
		builder = builder.WithExchangeRate(source, rate.Rate)
	}

	if in.UseRateStore {
		if r.banks == nil {
			return nil, fmt.Errorf("%w: no rate store configured", ErrInvalidInput)
		}
		bank, err := r.banks.Bank(ctx)
		if err != nil {
			return nil, err
		}
		builder = builder.WithBank(bank)
	}

	return builder.Build()
}

func roundingStrategy(in RoundingInput, target *domain.Currency) (domain.RoundingStrategy, error) {
	mode, err := domain.ParseRoundingMode(in.Mode)
	if err != nil {
		return domain.RoundingStrategy{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if mode == domain.RoundingModeNone {
		return domain.NoRounding(), nil
	}

	if in.Precision.Valid {
		return domain.NewRoundingStrategy(mode, in.Precision.Decimal)
	}

	if target == nil {
		return domain.RoundingStrategy{}, fmt.Errorf("%w: a rounding without precision needs a target currency", domain.ErrInvalidContextBuilder)
	}

	return domain.NewRoundingStrategy(mode, target.Precision())
}
