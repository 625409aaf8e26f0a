package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EvaluationContext resolves what an expression alone cannot: the currency
// to convert into, the rounding to apply and where exchange rates come from.
// It is immutable and safe to share between evaluations.
type EvaluationContext struct {
	targetCurrency   Currency
	distributionUnit decimal.NullDecimal
	roundingStrategy RoundingStrategy
	bank             Bank
}

// TargetCurrency is the currency all amounts are converted to.
func (c *EvaluationContext) TargetCurrency() Currency {
	return c.targetCurrency
}

// DistributionUnit is the smallest amount a distribution hands out, if set.
func (c *EvaluationContext) DistributionUnit() decimal.NullDecimal {
	return c.distributionUnit
}

// RoundingStrategy is applied to the final result of an evaluation.
func (c *EvaluationContext) RoundingStrategy() RoundingStrategy {
	return c.roundingStrategy
}

// Bank is the exchange rate source.
func (c *EvaluationContext) Bank() Bank {
	return c.bank
}

type bankSource int

const (
	bankSourceNone bankSource = iota
	bankSourceRates
	bankSourceExplicit
)

// ContextBuilder accumulates the settings of an EvaluationContext. Every
// With method returns a modified copy; problems are reported by Build.
type ContextBuilder struct {
	targetCurrency   *Currency
	distributionUnit decimal.NullDecimal
	roundingStrategy *RoundingStrategy
	rates            DefaultBank
	bank             Bank
	source           bankSource
	err              error
}

// NewContextBuilder returns an empty builder.
func NewContextBuilder() ContextBuilder {
	return ContextBuilder{rates: EmptyBank()}
}

// WithTargetCurrency sets the currency of the evaluation result.
func (b ContextBuilder) WithTargetCurrency(currency Currency) ContextBuilder {
	b.targetCurrency = &currency
	return b
}

// WithRounding sets the rounding strategy of the evaluation result.
func (b ContextBuilder) WithRounding(strategy RoundingStrategy) ContextBuilder {
	b.roundingStrategy = &strategy
	return b
}

// WithSmallestDistributionUnit sets the default precision of distributions.
func (b ContextBuilder) WithSmallestDistributionUnit(unit decimal.Decimal) ContextBuilder {
	b.distributionUnit = decimal.NewNullDecimal(unit)
	return b
}

// WithBank sets the exchange rate source. It cannot be combined with
// WithExchangeRate.
func (b ContextBuilder) WithBank(bank Bank) ContextBuilder {
	if b.source == bankSourceRates {
		return b.fail(fmt.Errorf("%w: use either WithExchangeRate or WithBank, not both", ErrInvalidContextBuilder))
	}

	b.bank = bank
	b.source = bankSourceExplicit
	return b
}

// WithExchangeRate adds the rate from currency to the target currency, which
// must already be set. It cannot be combined with WithBank.
func (b ContextBuilder) WithExchangeRate(currency Currency, sellRate decimal.Decimal) ContextBuilder {
	if b.source == bankSourceExplicit {
		return b.fail(fmt.Errorf("%w: use either WithExchangeRate or WithBank, not both", ErrInvalidContextBuilder))
	}

	if b.targetCurrency == nil {
		return b.fail(fmt.Errorf("%w: a target currency is required before adding an exchange rate", ErrInvalidContextBuilder))
	}

	b.rates = b.rates.WithExchangeRate(currency, *b.targetCurrency, sellRate)
	b.source = bankSourceRates
	return b
}

// Build validates the settings and creates the context.
func (b ContextBuilder) Build() (*EvaluationContext, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.targetCurrency == nil {
		return nil, fmt.Errorf("%w: money evaluation context has no target currency set", ErrInvalidContextBuilder)
	}

	if b.source == bankSourceExplicit && b.bank == nil {
		return nil, fmt.Errorf("%w: bank is nil", ErrInvalidContextBuilder)
	}

	if b.distributionUnit.Valid && !b.distributionUnit.Decimal.IsPositive() {
		return nil, fmt.Errorf("%w: distribution unit %s", ErrInvalidPrecision, b.distributionUnit.Decimal)
	}

	rounding, err := b.resolveRounding()
	if err != nil {
		return nil, err
	}

	return &EvaluationContext{
		targetCurrency:   *b.targetCurrency,
		distributionUnit: b.distributionUnit,
		roundingStrategy: rounding,
		bank:             b.resolveBank(),
	}, nil
}

func (b ContextBuilder) resolveRounding() (RoundingStrategy, error) {
	if b.roundingStrategy != nil {
		if b.roundingStrategy.IsZero() {
			return RoundingStrategy{}, fmt.Errorf("%w: rounding strategy has no mode", ErrInvalidContextBuilder)
		}

		if b.distributionUnit.Valid && !b.roundingStrategy.IsSameAfterRounding(b.distributionUnit.Decimal) {
			return RoundingStrategy{}, fmt.Errorf(
				"%w: the rounding strategy %s is incompatible with the smallest possible distribution unit %s",
				ErrIncompatibleRounding, b.roundingStrategy, b.distributionUnit.Decimal,
			)
		}

		return *b.roundingStrategy, nil
	}

	if b.distributionUnit.Valid {
		return NewBankersRounding(b.distributionUnit.Decimal)
	}

	return DefaultRounding(*b.targetCurrency), nil
}

func (b ContextBuilder) resolveBank() Bank {
	if b.source == bankSourceExplicit {
		return b.bank
	}
	return b.rates
}

func (b ContextBuilder) fail(err error) ContextBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}
