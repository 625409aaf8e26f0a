package domain

import (
	"errors"
	"testing"
)

func TestContextBuilder_Build(t *testing.T) {
	t.Parallel()

	fiveCents, err := NewBankersRounding(dec("0.05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name        string
		builder     ContextBuilder
		expectError error
	}{
		{
			name:        "target currency is required",
			builder:     NewContextBuilder(),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "exchange rate before target currency",
			builder:     NewContextBuilder().WithExchangeRate(usd, dec("0.9")).WithTargetCurrency(chf),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "bank after exchange rate",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithExchangeRate(usd, dec("0.9")).WithBank(OneToOneBank{}),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "exchange rate after bank",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithBank(OneToOneBank{}).WithExchangeRate(usd, dec("0.9")),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "nil bank",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithBank(nil),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "unset rounding strategy",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithRounding(RoundingStrategy{}),
			expectError: ErrInvalidContextBuilder,
		},
		{
			name:        "zero distribution unit",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithSmallestDistributionUnit(dec("0")),
			expectError: ErrInvalidPrecision,
		},
		{
			name:        "rounding coarser than distribution unit",
			builder:     NewContextBuilder().WithTargetCurrency(chf).WithSmallestDistributionUnit(dec("0.01")).WithRounding(fiveCents),
			expectError: ErrIncompatibleRounding,
		},
		{
			name:    "rounding matching distribution unit",
			builder: NewContextBuilder().WithTargetCurrency(chf).WithSmallestDistributionUnit(dec("0.10")).WithRounding(fiveCents),
		},
		{
			name:    "no rounding accepts any unit",
			builder: NewContextBuilder().WithTargetCurrency(chf).WithSmallestDistributionUnit(dec("0.001")).WithRounding(NoRounding()),
		},
		{
			name:    "target currency only",
			builder: NewContextBuilder().WithTargetCurrency(chf),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := tt.builder.Build()
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctx.TargetCurrency() != chf {
				t.Fatalf("expected target CHF, got %s", ctx.TargetCurrency())
			}
		})
	}
}

func TestContextBuilder_DefaultRounding(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().WithTargetCurrency(jpy))
	if !ctx.RoundingStrategy().Equal(BankersRoundingFor(jpy)) {
		t.Fatalf("expected bankers rounding of JPY, got %s", ctx.RoundingStrategy())
	}
	if ctx.DistributionUnit().Valid {
		t.Fatal("expected no distribution unit")
	}

	ctx = mustBuild(t, NewContextBuilder().WithTargetCurrency(chf).WithSmallestDistributionUnit(dec("0.05")))
	expected, _ := NewBankersRounding(dec("0.05"))
	if !ctx.RoundingStrategy().Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, ctx.RoundingStrategy())
	}
}

func TestContextBuilder_Bank(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")).
		WithExchangeRate(usd, dec("0.9100")))

	rate, err := ctx.Bank().ExchangeRate(usd, chf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(dec("0.91")) {
		t.Fatalf("expected the last rate to win, got %s", rate)
	}

	if _, err := ctx.Bank().ExchangeRate(chf, usd); !errors.Is(err, ErrMissingExchangeRate) {
		t.Fatalf("expected ErrMissingExchangeRate for the inverse pair, got %v", err)
	}

	empty := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf))
	if _, err := empty.Bank().ExchangeRate(usd, chf); !errors.Is(err, ErrMissingExchangeRate) {
		t.Fatalf("expected the empty bank, got %v", err)
	}
}

func TestContextBuilder_IsImmutable(t *testing.T) {
	t.Parallel()

	base := NewContextBuilder().WithTargetCurrency(chf).WithExchangeRate(usd, dec("0.9"))
	derived := base.WithTargetCurrency(eur).WithExchangeRate(jpy, dec("0.006"))

	ctx := mustBuild(t, base)
	if ctx.TargetCurrency() != chf {
		t.Fatalf("expected CHF, got %s", ctx.TargetCurrency())
	}
	if _, err := ctx.Bank().ExchangeRate(jpy, eur); !errors.Is(err, ErrMissingExchangeRate) {
		t.Fatalf("rate of the derived builder leaked into the base: %v", err)
	}

	other := mustBuild(t, derived)
	if other.TargetCurrency() != eur {
		t.Fatalf("expected EUR, got %s", other.TargetCurrency())
	}
	if _, err := other.Bank().ExchangeRate(usd, chf); err != nil {
		t.Fatalf("expected the rate of the base builder, got %v", err)
	}
}
