package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DistributionStrategy computes the amount of one part of a distribution
// from the already evaluated total of the distributed expression.
type DistributionStrategy interface {
	Distribute(part DistributionPart, total Money) (Money, error)
}

// NewDistributionStrategy returns the default strategy. ctx may be nil.
//
// Every part first gets its exact share truncated to the precision. What the
// truncation left over is handed out one precision unit at a time starting
// with the first part; the last part to receive something gets the exact
// residue. The parts always add up to the total.
func NewDistributionStrategy(ctx *EvaluationContext) DistributionStrategy {
	return defaultDistribution{ctx: ctx}
}

type defaultDistribution struct {
	ctx *EvaluationContext
}

func (s defaultDistribution) Distribute(part DistributionPart, total Money) (Money, error) {
	d := part.Distribution
	if d == nil {
		return Money{}, fmt.Errorf("%w: part %d has no distribution", ErrImpossibleDistribution, part.Index)
	}

	if err := ValidateFactors(d.Factors); err != nil {
		return Money{}, err
	}

	if part.Index < 0 || part.Index >= len(d.Factors) {
		return Money{}, fmt.Errorf("%w: index %d out of range for %d factors", ErrImpossibleDistribution, part.Index, len(d.Factors))
	}

	precision := s.precision(d, total)
	if !precision.IsPositive() {
		return Money{}, fmt.Errorf("%w: distribution precision %s", ErrInvalidPrecision, precision)
	}

	toDistribute := total.Amount.Sub(s.distributedTotal(d, total.Amount, precision))

	rounding := s.roundingStrategy(total)
	if !rounding.IsSameAfterRounding(precision) || !rounding.IsSameAfterRounding(toDistribute) {
		return Money{}, fmt.Errorf(
			"%w: it is impossible to distribute %s in sizes of %s with the current rounding strategy: %s",
			ErrImpossibleDistribution, toDistribute, precision, rounding,
		)
	}

	amount := slice(d, part.Index, total.Amount, precision).Add(extra(part.Index, toDistribute, precision, total.Amount))

	return total.withAmount(amount), nil
}

// precision resolves, in order: the distribution, the context unit, the
// minor unit of the context target currency, the minor unit of the total.
func (s defaultDistribution) precision(d *Distribution, total Money) decimal.Decimal {
	if d.Precision.Valid {
		return d.Precision.Decimal
	}

	if s.ctx != nil {
		if unit := s.ctx.DistributionUnit(); unit.Valid {
			return unit.Decimal
		}
		return s.ctx.TargetCurrency().Precision()
	}

	return total.Currency.Precision()
}

func (s defaultDistribution) roundingStrategy(total Money) RoundingStrategy {
	if s.ctx != nil {
		return s.ctx.RoundingStrategy()
	}
	return total.Rounding()
}

func (s defaultDistribution) distributedTotal(d *Distribution, amount, precision decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for i := range d.Factors {
		sum = sum.Add(slice(d, i, amount, precision))
	}
	return sum
}

// slice truncates amount * factor / total toward zero to the precision.
func slice(d *Distribution, index int, amount, precision decimal.Decimal) decimal.Decimal {
	numerator := amount.Mul(decimal.NewFromInt(int64(d.Factors[index])))
	denominator := d.FactorTotal().Mul(precision)

	q, _ := numerator.QuoRem(denominator, 0)
	return q.Mul(precision)
}

func extra(index int, toDistribute, precision, amount decimal.Decimal) decimal.Decimal {
	remaining := toDistribute.Abs()
	signedPrecision := applySignFrom(precision, amount)

	switch {
	case precision.Mul(decimal.NewFromInt(int64(index + 1))).LessThan(remaining):
		return signedPrecision
	case precision.Mul(decimal.NewFromInt(int64(index))).LessThan(remaining):
		return toDistribute.Sub(signedPrecision.Mul(decimal.NewFromInt(int64(index))))
	default:
		return decimal.Zero
	}
}

func applySignFrom(positive, signSource decimal.Decimal) decimal.Decimal {
	if signSource.IsNegative() {
		return positive.Neg()
	}
	return positive
}
