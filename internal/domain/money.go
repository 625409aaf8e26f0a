package domain

import (
	"github.com/shopspring/decimal"
)

// Money is the leaf of every expression: an amount in a currency together
// with the rounding strategy applied when it is evaluated on its own.
type Money struct {
	Amount           decimal.Decimal
	Currency         Currency
	RoundingStrategy RoundingStrategy
}

// Zero is the neutral element of addition for any currency.
var Zero = Money{Amount: decimal.Zero}

// NewMoney creates a Money with the default rounding of its currency.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{
		Amount:           amount,
		Currency:         currency,
		RoundingStrategy: DefaultRounding(currency),
	}
}

// NewMoneyInContext creates a Money in the target currency of ctx, rounded
// with the strategy of ctx.
func NewMoneyInContext(amount decimal.Decimal, ctx *EvaluationContext) Money {
	return Money{
		Amount:           amount,
		Currency:         ctx.TargetCurrency(),
		RoundingStrategy: ctx.RoundingStrategy(),
	}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Rounding returns the effective rounding strategy. A Money built as a
// struct literal without a strategy falls back to the currency default.
func (m Money) Rounding() RoundingStrategy {
	if m.RoundingStrategy.IsZero() {
		return DefaultRounding(m.Currency)
	}
	return m.RoundingStrategy
}

// Equal compares amount, currency and effective rounding strategy.
func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) &&
		m.Currency == other.Currency &&
		m.Rounding().Equal(other.Rounding())
}

// Neg returns the money with the opposite amount.
func (m Money) Neg() Money {
	m.Amount = m.Amount.Neg()
	return m
}

// withAmount returns a copy of m carrying amount.
func (m Money) withAmount(amount decimal.Decimal) Money {
	m.Amount = amount
	return m
}

// String renders the generic "amount CODE" format.
func (m Money) String() string {
	if m.Currency.IsZero() {
		return m.Amount.String()
	}
	return m.Amount.StringFixed(int32(m.Currency.MinorUnitDigits)) + " " + m.Currency.Code
}

func (Money) isExpression() {}
