package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func evaluateParts(t *testing.T, parts []Expression, ctx *EvaluationContext) []Money {
	t.Helper()

	results := make([]Money, len(parts))
	for i, part := range parts {
		results[i] = mustEvaluate(t, part, ctx)
	}
	return results
}

func assertAmounts(t *testing.T, results []Money, expected ...string) {
	t.Helper()

	if len(results) != len(expected) {
		t.Fatalf("expected %d parts, got %d", len(expected), len(results))
	}
	for i, want := range expected {
		if !results[i].Amount.Equal(dec(want)) {
			t.Errorf("part %d = %s, want %s", i, results[i].Amount, want)
		}
	}
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		expr      Expression
		factors   []int
		precision decimal.NullDecimal
		expected  []string
	}{
		{
			name:     "equal parts hand the remainder to the first part",
			expr:     money("1.00", chf),
			factors:  []int{1, 1, 1},
			expected: []string{"0.34", "0.33", "0.33"},
		},
		{
			name:      "five cent precision",
			expr:      money("1.00", chf),
			factors:   []int{1, 1, 1},
			precision: decimal.NewNullDecimal(dec("0.05")),
			expected:  []string{"0.35", "0.35", "0.30"},
		},
		{
			name:     "weighted five to one",
			expr:     Add(money("0.50", eur), money("0.50", eur)),
			factors:  []int{5, 1},
			expected: []string{"0.84", "0.16"},
		},
		{
			name:     "weighted one to ninety-eight",
			expr:     money("1.00", eur),
			factors:  []int{1, 98},
			expected: []string{"0.02", "0.98"},
		},
		{
			name:     "negative total distributes negative units",
			expr:     money("-1.00", chf),
			factors:  []int{1, 1, 1},
			expected: []string{"-0.34", "-0.33", "-0.33"},
		},
		{
			name:      "negative total with five cent precision",
			expr:      money("-1.00", chf),
			factors:   []int{1, 1, 1},
			precision: decimal.NewNullDecimal(dec("0.05")),
			expected:  []string{"-0.35", "-0.35", "-0.30"},
		},
		{
			name:     "whole units without minor digits",
			expr:     money("100", jpy),
			factors:  []int{1, 1, 1},
			expected: []string{"34", "33", "33"},
		},
		{
			name:     "single part takes everything",
			expr:     money("7.77", usd),
			factors:  []int{3},
			expected: []string{"7.77"},
		},
		{
			name:     "zero total",
			expr:     money("0", usd),
			factors:  []int{1, 2},
			expected: []string{"0", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Distribute(tt.expr, tt.factors, tt.precision)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertAmounts(t, evaluateParts(t, parts, nil), tt.expected...)
		})
	}
}

func TestDistribute_SmallestUnitFromContext(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithSmallestDistributionUnit(dec("0.002")))

	parts, err := DistributeEqually(money("1.00", chf), 3, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAmounts(t, evaluateParts(t, parts, ctx), "0.334", "0.334", "0.332")
}

func TestDistribute_ExplicitPrecisionWithContext(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithSmallestDistributionUnit(dec("0.002")))

	parts, err := DistributeEqually(money("1.00", chf), 3, decimal.NewNullDecimal(dec("0.002")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAmounts(t, evaluateParts(t, parts, ctx), "0.334", "0.334", "0.332")
}

func TestDistribute_MixedCurrenciesWithContext(t *testing.T) {
	t.Parallel()

	ctx := mustBuild(t, NewContextBuilder().
		WithTargetCurrency(chf).
		WithExchangeRate(usd, dec("0.9")))

	parts, err := DistributeEqually(Add(money("5", chf), money("10", usd)), 3, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := evaluateParts(t, parts, ctx)
	assertAmounts(t, results, "4.67", "4.67", "4.66")

	for _, r := range results {
		if r.Currency != chf {
			t.Errorf("expected part in CHF, got %s", r.Currency)
		}
	}
}

func TestDistribute_PartsAddUpToTotal(t *testing.T) {
	t.Parallel()

	amounts := []string{"0.01", "0.99", "1.00", "10.07", "123.45", "-17.31", "9999.99"}
	factorSets := [][]int{{1}, {1, 1}, {1, 1, 1}, {1, 2, 3}, {7, 1, 1, 1}, {1, 98}, {3, 3, 3, 3, 3, 3, 3}}

	for _, amount := range amounts {
		for _, factors := range factorSets {
			t.Run(fmt.Sprintf("%s/%v", amount, factors), func(t *testing.T) {
				total := money(amount, chf)

				parts, err := Distribute(total, factors, decimal.NullDecimal{})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(parts) != len(factors) {
					t.Fatalf("expected %d parts, got %d", len(factors), len(parts))
				}

				var sum Expression = Zero
				for _, p := range parts {
					sum = Add(sum, p)
				}

				result := mustEvaluate(t, sum, nil)
				if !result.Amount.Equal(total.Amount) {
					t.Fatalf("parts add up to %s, want %s", result.Amount, total.Amount)
				}
			})
		}
	}
}

func TestDistribute_EqualFactorsDifferByOneUnitAtMost(t *testing.T) {
	t.Parallel()

	unit := chf.Precision()

	for _, amount := range []string{"1.00", "0.05", "100.01", "-3.33", "17.18"} {
		for n := 1; n <= 9; n++ {
			parts, err := DistributeEqually(money(amount, chf), n, decimal.NullDecimal{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			results := evaluateParts(t, parts, nil)
			lowest, highest := results[0].Amount, results[0].Amount
			for _, r := range results[1:] {
				lowest = decimal.Min(lowest, r.Amount)
				highest = decimal.Max(highest, r.Amount)
			}

			if highest.Sub(lowest).GreaterThan(unit) {
				t.Errorf("%s into %d parts: spread %s exceeds %s", amount, n, highest.Sub(lowest), unit)
			}
		}
	}
}

func TestDistribute_SharedTotalInOneEvaluation(t *testing.T) {
	t.Parallel()

	parts, err := DistributeEqually(money("1.00", chf), 3, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := mustEvaluate(t, Add(parts[0], Add(parts[1], parts[2])), nil)
	if !result.Amount.Equal(dec("1.00")) {
		t.Fatalf("expected 1.00, got %s", result.Amount)
	}

	scaled := mustEvaluate(t, Multiply(parts[2], dec("3")), nil)
	if !scaled.Amount.Equal(dec("0.99")) {
		t.Fatalf("expected 0.99, got %s", scaled.Amount)
	}
}

func TestDistribute_Impossible(t *testing.T) {
	t.Parallel()

	t.Run("precision finer than rounding", func(t *testing.T) {
		parts, err := DistributeEqually(money("1.00", chf), 3, decimal.NewNullDecimal(dec("0.002")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = Evaluate(parts[0], nil)
		if !errors.Is(err, ErrImpossibleDistribution) {
			t.Fatalf("expected ErrImpossibleDistribution, got %v", err)
		}
	})

	t.Run("total not representable", func(t *testing.T) {
		parts, err := DistributeEqually(Money{Amount: dec("1.005"), Currency: chf}, 2, decimal.NullDecimal{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = Evaluate(parts[1], nil)
		if !errors.Is(err, ErrImpossibleDistribution) {
			t.Fatalf("expected ErrImpossibleDistribution, got %v", err)
		}
	})

	t.Run("invalid factors", func(t *testing.T) {
		for _, factors := range [][]int{nil, {}, {1, 0}, {2, -1}} {
			if _, err := Distribute(money("1", chf), factors, decimal.NullDecimal{}); !errors.Is(err, ErrImpossibleDistribution) {
				t.Errorf("factors %v: expected ErrImpossibleDistribution, got %v", factors, err)
			}
		}

		if _, err := DistributeEqually(money("1", chf), 0, decimal.NullDecimal{}); !errors.Is(err, ErrImpossibleDistribution) {
			t.Errorf("zero parts: expected ErrImpossibleDistribution, got %v", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		d := &Distribution{Expression: money("1", chf), Factors: []int{1, 1}}
		_, err := Evaluate(DistributionPart{Distribution: d, Index: 2}, nil)
		if !errors.Is(err, ErrImpossibleDistribution) {
			t.Fatalf("expected ErrImpossibleDistribution, got %v", err)
		}
	})

	t.Run("non-positive precision", func(t *testing.T) {
		parts, err := Distribute(money("1", chf), []int{1, 1}, decimal.NewNullDecimal(decimal.Zero))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = Evaluate(parts[0], nil)
		if !errors.Is(err, ErrInvalidPrecision) {
			t.Fatalf("expected ErrInvalidPrecision, got %v", err)
		}
	})
}

func TestDistribute_HugeFactors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		factors  []int
		expected []string
	}{
		{"sum exceeds int", []int{math.MaxInt64, 1}, []string{"10.00", "0.00"}},
		{"sum wraps to zero as int", []int{math.MaxInt64, math.MaxInt64, 2}, []string{"5.00", "5.00", "0.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Distribute(money("10", chf), tt.factors, decimal.NullDecimal{})
			if err != nil {
				t.Fatalf("Distribute failed: %v", err)
			}

			results := evaluateParts(t, parts, nil)
			assertAmounts(t, results, tt.expected...)

			sum := decimal.Zero
			for _, r := range results {
				sum = sum.Add(r.Amount)
			}
			if !sum.Equal(dec("10")) {
				t.Fatalf("parts add up to %s, want 10", sum)
			}
		})
	}
}

func TestDistribution_FactorTotal(t *testing.T) {
	d := &Distribution{Factors: []int{math.MaxInt64, math.MaxInt64, 2}}

	if got := d.FactorTotal(); !got.Equal(dec("18446744073709551616")) {
		t.Fatalf("FactorTotal = %s, want 2^64", got)
	}
}

func TestDistribute_FactorsAreCopied(t *testing.T) {
	t.Parallel()

	factors := []int{1, 1}
	parts, err := Distribute(money("1.00", chf), factors, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	factors[0] = 99

	assertAmounts(t, evaluateParts(t, parts, nil), "0.50", "0.50")
}
