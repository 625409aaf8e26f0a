package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// RateUseCase manages stored exchange rates.
type RateUseCase struct {
	repo       RateRepository
	currencies CurrencyProvider
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewRateUseCase creates a new RateUseCase.
func NewRateUseCase(repo RateRepository, currencies CurrencyProvider, m *metrics.Metrics, log zerolog.Logger) *RateUseCase {
	return &RateUseCase{
		repo:       repo,
		currencies: currencies,
		metrics:    m,
		log:        log,
	}
}

// SetRateInput represents input for storing an exchange rate.
type SetRateInput struct {
	Source string
	Target string
	Rate   decimal.Decimal
}

// SetRate stores the rate converting one unit of Source into Target.
func (uc *RateUseCase) SetRate(ctx context.Context, input SetRateInput) (domain.ExchangeRate, error) {
	pair, err := uc.pair(input.Source, input.Target)
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	if !input.Rate.IsPositive() {
		return domain.ExchangeRate{}, fmt.Errorf("%w: exchange rate must be positive, got %s", ErrInvalidInput, input.Rate)
	}

	rate := domain.ExchangeRate{RatePair: pair, Rate: input.Rate}
	if err := uc.repo.Save(ctx, rate); err != nil {
		return domain.ExchangeRate{}, err
	}

	if uc.metrics != nil {
		uc.metrics.ExchangeRateUpdates.Inc()
	}

	uc.log.Info().
		Str("source", pair.Source.Code).
		Str("target", pair.Target.Code).
		Str("rate", input.Rate.String()).
		Msg("exchange rate stored")

	return rate, nil
}

// DeleteRate removes the rate of a pair.
func (uc *RateUseCase) DeleteRate(ctx context.Context, source, target string) error {
	pair, err := uc.pair(source, target)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, pair); err != nil {
		return err
	}

	uc.log.Info().Str("source", pair.Source.Code).Str("target", pair.Target.Code).Msg("exchange rate deleted")
	return nil
}

// ListRates returns all stored rates sorted by source and target.
func (uc *RateUseCase) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	bank, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return bank.Rates(), nil
}

// Bank returns an immutable snapshot of the stored rates.
func (uc *RateUseCase) Bank(ctx context.Context) (domain.Bank, error) {
	bank, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return meteredBank{bank: bank, metrics: uc.metrics}, nil
}

func (uc *RateUseCase) snapshot(ctx context.Context) (domain.DefaultBank, error) {
	rates, err := uc.repo.List(ctx)
	if err != nil {
		return domain.DefaultBank{}, fmt.Errorf("failed to load exchange rates: %w", err)
	}

	table := make(map[domain.RatePair]decimal.Decimal, len(rates))
	for _, r := range rates {
		table[r.RatePair] = r.Rate
	}

	return domain.NewDefaultBank(table), nil
}

func (uc *RateUseCase) pair(source, target string) (domain.RatePair, error) {
	s, err := uc.currencies.Currency(source)
	if err != nil {
		return domain.RatePair{}, err
	}

	t, err := uc.currencies.Currency(target)
	if err != nil {
		return domain.RatePair{}, err
	}

	if s == t {
		return domain.RatePair{}, fmt.Errorf("%w: source and target are both %s", ErrInvalidInput, s.Code)
	}

	return domain.RatePair{Source: s, Target: t}, nil
}
