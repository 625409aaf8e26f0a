package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Bank provides exchange rates. A rate converts one unit of source into
// target: amountInTarget = amountInSource * rate.
type Bank interface {
	ExchangeRate(source, target Currency) (decimal.Decimal, error)
}

// RatePair is a directed currency pair.
type RatePair struct {
	Source Currency
	Target Currency
}

// ExchangeRate is one entry of a DefaultBank.
type ExchangeRate struct {
	RatePair
	Rate decimal.Decimal
}

type rateKey struct {
	source string
	target string
}

// DefaultBank is an immutable in-memory table of exchange rates.
type DefaultBank struct {
	rates map[rateKey]ExchangeRate
}

// EmptyBank returns a bank without any rate.
func EmptyBank() DefaultBank {
	return DefaultBank{}
}

// NewDefaultBank creates a bank from the given rates.
func NewDefaultBank(rates map[RatePair]decimal.Decimal) DefaultBank {
	b := DefaultBank{rates: make(map[rateKey]ExchangeRate, len(rates))}
	for pair, rate := range rates {
		b.rates[keyOf(pair.Source, pair.Target)] = ExchangeRate{RatePair: pair, Rate: rate}
	}
	return b
}

// WithExchangeRate returns a copy of the bank with the rate added or replaced.
func (b DefaultBank) WithExchangeRate(source, target Currency, rate decimal.Decimal) DefaultBank {
	rates := make(map[rateKey]ExchangeRate, len(b.rates)+1)
	for k, v := range b.rates {
		rates[k] = v
	}
	rates[keyOf(source, target)] = ExchangeRate{
		RatePair: RatePair{Source: source, Target: target},
		Rate:     rate,
	}
	return DefaultBank{rates: rates}
}

// ExchangeRate implements Bank.
func (b DefaultBank) ExchangeRate(source, target Currency) (decimal.Decimal, error) {
	rate, ok := b.rates[keyOf(source, target)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no exchange rate for %s => %s", ErrMissingExchangeRate, source.Code, target.Code)
	}
	return rate.Rate, nil
}

// Rates lists all rates sorted by source and target code.
func (b DefaultBank) Rates() []ExchangeRate {
	result := make([]ExchangeRate, 0, len(b.rates))
	for _, r := range b.rates {
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Source.Code != result[j].Source.Code {
			return result[i].Source.Code < result[j].Source.Code
		}
		return result[i].Target.Code < result[j].Target.Code
	})

	return result
}

// Len returns the number of rates.
func (b DefaultBank) Len() int {
	return len(b.rates)
}

func keyOf(source, target Currency) rateKey {
	return rateKey{source: source.Code, target: target.Code}
}

// OneToOneBank returns a rate of 1 for every pair.
type OneToOneBank struct{}

// ExchangeRate implements Bank.
func (OneToOneBank) ExchangeRate(_, _ Currency) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}
