package usecase_test

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/iso4217"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
	"github.com/iho/gomoney/internal/usecase"
	"github.com/iho/gomoney/internal/usecase/mocks"
)

var (
	chf = domain.MustNewCurrency("CHF", 2)
	eur = domain.MustNewCurrency("EUR", 2)
	usd = domain.MustNewCurrency("USD", 2)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newMetrics() *metrics.Metrics {
	return metrics.NewWithRegisterer(prometheus.NewRegistry())
}

func newIDGenerator(ctrl *gomock.Controller, id string) *mocks.MockIDGenerator {
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return(id).AnyTimes()
	return idGen
}

func newResolver(banks usecase.BankSource, defaultTarget string) *usecase.ContextResolver {
	return usecase.NewContextResolver(iso4217.NewProvider(), banks, defaultTarget)
}

var nopLogger = zerolog.Nop()
