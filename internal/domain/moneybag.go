package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyBag accumulates the leaves of an expression per currency. Zero
// amounts are not stored; the first currency they carry is remembered so
// that an all-zero evaluation keeps its currency.
type moneyBag struct {
	currencies    map[Currency][]Money
	order         []Currency
	emptyCurrency *Currency
}

func newMoneyBag(money Money) *moneyBag {
	bag := &moneyBag{currencies: make(map[Currency][]Money)}
	bag.add(money)
	return bag
}

func (b *moneyBag) add(money Money) {
	if money.IsZero() {
		if len(b.order) == 0 && b.emptyCurrency == nil && !money.Currency.IsZero() {
			c := money.Currency
			b.emptyCurrency = &c
		}
		return
	}

	if _, ok := b.currencies[money.Currency]; !ok {
		b.order = append(b.order, money.Currency)
	}
	b.currencies[money.Currency] = append(b.currencies[money.Currency], money)
}

func (b *moneyBag) merge(other *moneyBag) *moneyBag {
	if b.emptyCurrency == nil && len(b.order) == 0 {
		b.emptyCurrency = other.emptyCurrency
	}

	for _, c := range other.order {
		for _, m := range other.currencies[c] {
			b.add(m)
		}
	}

	return b
}

func (b *moneyBag) multiply(factor decimal.Decimal) *moneyBag {
	for _, c := range b.order {
		entries := b.currencies[c]
		scaled := make([]Money, len(entries))
		for i, m := range entries {
			scaled[i] = m.withAmount(m.Amount.Mul(factor))
		}
		b.currencies[c] = scaled
	}

	return b
}

// calculateTotal collapses the bag into one unrounded Money.
func (b *moneyBag) calculateTotal(ctx *EvaluationContext) (Money, error) {
	if ctx == nil {
		return b.aggregateWithoutContext()
	}
	return b.aggregateWithContext(ctx)
}

func (b *moneyBag) aggregateWithoutContext() (Money, error) {
	switch len(b.order) {
	case 0:
		if b.emptyCurrency == nil {
			return Zero, nil
		}
		return NewMoney(decimal.Zero, *b.emptyCurrency), nil
	case 1:
		return aggregateSingleCurrency(b.currencies[b.order[0]])
	default:
		return Money{}, fmt.Errorf("%w: different currencies (%s) cannot be evaluated without an evaluation context",
			ErrMissingEvaluationContext, b.currencyList())
	}
}

func aggregateSingleCurrency(entries []Money) (Money, error) {
	total := entries[0]
	rounding := total.Rounding()

	for _, m := range entries[1:] {
		if !m.Rounding().Equal(rounding) {
			return Money{}, fmt.Errorf("%w: different rounding strategies (%s, %s) cannot be evaluated without an evaluation context",
				ErrMissingEvaluationContext, rounding, m.Rounding())
		}
		total = total.withAmount(total.Amount.Add(m.Amount))
	}

	return total, nil
}

func (b *moneyBag) aggregateWithContext(ctx *EvaluationContext) (Money, error) {
	total := NewMoneyInContext(decimal.Zero, ctx)

	for _, c := range b.order {
		subtotal := decimal.Zero
		for _, m := range b.currencies[c] {
			subtotal = subtotal.Add(m.Amount)
		}

		converted, err := exchangeToTargetCurrency(subtotal, c, ctx)
		if err != nil {
			return Money{}, err
		}

		total = total.withAmount(total.Amount.Add(converted))
	}

	return total, nil
}

func exchangeToTargetCurrency(amount decimal.Decimal, currency Currency, ctx *EvaluationContext) (decimal.Decimal, error) {
	if currency == ctx.TargetCurrency() {
		return amount, nil
	}

	rate, err := ctx.Bank().ExchangeRate(currency, ctx.TargetCurrency())
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(rate), nil
}

func (b *moneyBag) currencyList() string {
	codes := make([]string, len(b.order))
	for i, c := range b.order {
		codes[i] = c.Code
	}
	return strings.Join(codes, ", ")
}
