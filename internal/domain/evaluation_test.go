package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEvaluate_SingleCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     Expression
		expected Money
	}{
		{
			name:     "money evaluates to itself",
			expr:     money("2.50", chf),
			expected: money("2.50", chf),
		},
		{
			name:     "sum",
			expr:     Add(money("2.50", chf), money("7.00", chf)),
			expected: money("9.50", chf),
		},
		{
			name:     "sum and product",
			expr:     Add(money("2.50", chf), Multiply(money("7.00", chf), dec("1.5"))),
			expected: money("13.00", chf),
		},
		{
			name:     "subtract",
			expr:     Subtract(money("10.00", usd), money("3.25", usd)),
			expected: money("6.75", usd),
		},
		{
			name:     "negate",
			expr:     Negate(money("4.10", eur)),
			expected: money("-4.10", eur),
		},
		{
			name:     "rounded once at the end",
			expr:     Add(Multiply(money("0.005", chf), dec("1")), Multiply(money("0.005", chf), dec("1"))),
			expected: money("0.01", chf),
		},
		{
			name:     "nested products",
			expr:     Multiply(Multiply(Add(money("1", jpy), money("2", jpy)), dec("2")), dec("0.5")),
			expected: money("3", jpy),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEvaluate(t, tt.expr, nil)
			if !got.Equal(tt.expected) {
				t.Fatalf("Evaluate(%s) = %s, want %s", ToHumanReadable(tt.expr), got, tt.expected)
			}
		})
	}
}

func TestEvaluate_ZeroIsNeutral(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")))

	exprs := []Expression{
		money("3.33", chf),
		Add(money("5", chf), money("10", usd)),
		Multiply(money("1.10", chf), dec("3")),
	}

	for _, expr := range exprs {
		plain := mustEvaluate(t, expr, ctx)
		left := mustEvaluate(t, Add(Zero, expr), ctx)
		right := mustEvaluate(t, Add(expr, Zero), ctx)

		if !plain.Equal(left) || !plain.Equal(right) {
			t.Errorf("%s: zero changed the result: %s, %s, %s", ToHumanReadable(expr), plain, left, right)
		}
	}

	single := money("3.33", chf)
	if got := mustEvaluate(t, Add(Zero, single), nil); !got.Equal(single) {
		t.Errorf("expected %s without context, got %s", single, got)
	}
}

func TestEvaluate_AdditionIsCommutative(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")).
		WithExchangeRate(eur, dec("1.0715")))

	a := Add(money("1.11", usd), money("2.22", eur))
	b := Multiply(money("7.77", chf), dec("0.33"))

	ab := mustEvaluate(t, Add(a, b), ctx)
	ba := mustEvaluate(t, Add(b, a), ctx)

	if !ab.Equal(ba) {
		t.Fatalf("a + b = %s, b + a = %s", ab, ba)
	}
}

func TestEvaluate_ZeroKeepsCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     Expression
		expected Currency
	}{
		{"zero money", money("0", usd), usd},
		{"sum of zeros", Add(money("0", usd), money("0", usd)), usd},
		{"first zero wins", Add(money("0", eur), money("0", usd)), eur},
		{"untyped zero takes the currency", Add(Zero, money("0", chf)), chf},
		{"cancelling amounts", Subtract(money("1.50", eur), money("1.50", eur)), eur},
		{"scaled by zero", Multiply(money("9.99", jpy), decimal.Zero), jpy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEvaluate(t, tt.expr, nil)
			if !got.Amount.IsZero() {
				t.Fatalf("expected zero, got %s", got.Amount)
			}
			if got.Currency != tt.expected {
				t.Fatalf("expected currency %s, got %s", tt.expected, got.Currency)
			}
		})
	}

	if got := mustEvaluate(t, Zero, nil); !got.Currency.IsZero() {
		t.Fatalf("expected Zero to stay without currency, got %s", got.Currency)
	}
}

func TestEvaluate_MissingContext(t *testing.T) {
	t.Parallel()

	fiveCents, err := NewBankersRounding(dec("0.05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		expr Expression
	}{
		{"different currencies", Add(money("5", chf), money("10", usd))},
		{"different currencies in a distribution", DistributionPart{
			Distribution: &Distribution{Expression: Add(money("1", eur), money("1", usd)), Factors: []int{1}},
		}},
		{"different rounding strategies", Add(
			Money{Amount: dec("1.00"), Currency: chf, RoundingStrategy: fiveCents},
			money("1.00", chf),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr, nil)
			if !errors.Is(err, ErrMissingEvaluationContext) {
				t.Fatalf("expected ErrMissingEvaluationContext, got %v", err)
			}
		})
	}
}

func TestEvaluate_DifferentRoundingStrategiesWithContext(t *testing.T) {
	t.Parallel()

	fiveCents, err := NewBankersRounding(dec("0.05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf))

	got := mustEvaluate(t, Add(
		Money{Amount: dec("1.00"), Currency: chf, RoundingStrategy: fiveCents},
		money("1.01", chf),
	), ctx)

	if !got.Amount.Equal(dec("2.01")) {
		t.Fatalf("expected 2.01, got %s", got.Amount)
	}
}

func TestEvaluate_ExchangeRates(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")))

	got := mustEvaluate(t, Add(money("5", chf), money("10", usd)), ctx)

	expected := NewMoneyInContext(dec("14.00"), ctx)
	if !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, got)
	}

	if !got.Rounding().Equal(ctx.RoundingStrategy()) {
		t.Fatalf("expected context rounding, got %s", got.Rounding())
	}
}

func TestEvaluate_ConvertsWithoutIntermediateRounding(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")))

	// 3 * 0.005 USD is 0.015 USD, 0.013506 CHF after conversion.
	got := mustEvaluate(t, Multiply(Money{Amount: dec("0.005"), Currency: usd}, dec("3")), ctx)
	if !got.Amount.Equal(dec("0.01")) {
		t.Fatalf("expected 0.01, got %s", got.Amount)
	}
}

func TestEvaluate_MissingExchangeRate(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9004")))

	_, err := Evaluate(Add(money("5", chf), money("10", eur)), ctx)
	if !errors.Is(err, ErrMissingExchangeRate) {
		t.Fatalf("expected ErrMissingExchangeRate, got %v", err)
	}
}

func TestEvaluate_ContextRounding(t *testing.T) {
	t.Parallel()

	fiveCents, err := NewBankersRounding(dec("0.05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	awayFiveCents, err := NewRoundAwayFromZero(dec("0.05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bankers := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf).WithRounding(fiveCents))
	away := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf).WithRounding(awayFiveCents))
	none := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf).WithRounding(NoRounding()))

	amount := Money{Amount: dec("4.225"), Currency: chf}

	if got := mustEvaluate(t, amount, bankers); !got.Amount.Equal(dec("4.20")) {
		t.Errorf("bankers: expected 4.20, got %s", got.Amount)
	}
	if got := mustEvaluate(t, amount, away); !got.Amount.Equal(dec("4.25")) {
		t.Errorf("away from zero: expected 4.25, got %s", got.Amount)
	}
	if got := mustEvaluate(t, amount, none); !got.Amount.Equal(dec("4.225")) {
		t.Errorf("no rounding: expected 4.225, got %s", got.Amount)
	}
}

func TestEvaluate_OneToOneBank(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(eur).
		WithBank(OneToOneBank{}))

	got := mustEvaluate(t, Add(money("1", chf), Add(money("2", usd), money("3", eur))), ctx)
	if !got.Equal(NewMoneyInContext(dec("6"), ctx)) {
		t.Fatalf("expected 6.00 EUR, got %s", got)
	}
}

func TestDivide(t *testing.T) {
	t.Parallel()

	expr, err := Divide(money("10.00", chf), dec("3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mustEvaluate(t, expr, nil); !got.Amount.Equal(dec("3.33")) {
		t.Fatalf("expected 3.33, got %s", got.Amount)
	}

	if _, err := Divide(money("10.00", chf), decimal.Zero); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

func TestDivide_LargeAmountKeepsDigits(t *testing.T) {
	t.Parallel()

	expr, err := Divide(money("1000000000000000000", chf), dec("3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mustEvaluate(t, expr, nil); !got.Amount.Equal(dec("333333333333333333.33")) {
		t.Fatalf("expected 333333333333333333.33, got %s", got.Amount)
	}

	ratio, err := DivideMoney(money("1000000000000000000", chf), money("3", chf), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ratio.Truncate(2); !got.Equal(dec("333333333333333333.33")) {
		t.Fatalf("expected 333333333333333333.33..., got %s", ratio)
	}
}

func TestDivideMoney(t *testing.T) {
	t.Parallel()

	t.Run("same currency", func(t *testing.T) {
		ratio, err := DivideMoney(money("10", chf), money("4", chf), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ratio.Equal(dec("2.5")) {
			t.Fatalf("expected 2.5, got %s", ratio)
		}
	})

	t.Run("different currencies need a context", func(t *testing.T) {
		_, err := DivideMoney(money("10", usd), money("4", chf), nil)
		if !errors.Is(err, ErrMissingEvaluationContext) {
			t.Fatalf("expected ErrMissingEvaluationContext, got %v", err)
		}
	})

	t.Run("different currencies with context", func(t *testing.T) {
		ctx := mustBuild(t, NewContextBuilder().WithTargetCurrency(chf).WithBank(OneToOneBank{}))

		ratio, err := DivideMoney(money("10", usd), money("4", chf), ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ratio.Equal(dec("2.5")) {
			t.Fatalf("expected 2.5, got %s", ratio)
		}
	})

	t.Run("zero divisor", func(t *testing.T) {
		_, err := DivideMoney(money("10", chf), money("0", chf), nil)
		if !errors.Is(err, ErrDivideByZero) {
			t.Fatalf("expected ErrDivideByZero, got %v", err)
		}
	})
}
