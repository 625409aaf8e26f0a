package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// meteredBank counts exchange rate lookups of the wrapped bank.
type meteredBank struct {
	bank    domain.Bank
	metrics *metrics.Metrics
}

func (b meteredBank) ExchangeRate(source, target domain.Currency) (decimal.Decimal, error) {
	rate, err := b.bank.ExchangeRate(source, target)

	if b.metrics != nil {
		result := "hit"
		if err != nil {
			result = "miss"
		}
		b.metrics.ExchangeRateLookups.WithLabelValues(result).Inc()
	}

	return rate, err
}
