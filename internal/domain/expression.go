package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Expression is an unevaluated monetary computation. The set of
// implementations is closed: Money, Sum, Product and DistributionPart.
// Expressions are immutable and never compute anything themselves;
// see Evaluate.
type Expression interface {
	isExpression()
}

// Sum adds two expressions.
type Sum struct {
	Left  Expression
	Right Expression
}

func (Sum) isExpression() {}

// Product scales an expression by a dimensionless factor.
type Product struct {
	Expression Expression
	Factor     decimal.Decimal
}

func (Product) isExpression() {}

// Distribution splits an expression into weighted parts. It is shared by
// all of its parts.
type Distribution struct {
	Expression Expression
	Factors    []int
	Precision  decimal.NullDecimal
}

// Parts returns one part per factor, in order.
func (d *Distribution) Parts() []Expression {
	parts := make([]Expression, len(d.Factors))
	for i := range d.Factors {
		parts[i] = DistributionPart{Distribution: d, Index: i}
	}
	return parts
}

// FactorTotal returns the sum of all factors. It is a decimal so that
// factors near math.MaxInt cannot overflow the sum.
func (d *Distribution) FactorTotal() decimal.Decimal {
	total := decimal.Zero
	for _, f := range d.Factors {
		total = total.Add(decimal.NewFromInt(int64(f)))
	}
	return total
}

// DistributionPart is the slice at Index of a distribution.
type DistributionPart struct {
	Distribution *Distribution
	Index        int
}

func (DistributionPart) isExpression() {}

// Add returns augend + addend.
func Add(augend, addend Expression) Expression {
	return Sum{Left: augend, Right: addend}
}

// Subtract returns minuend + (subtrahend * -1).
func Subtract(minuend, subtrahend Expression) Expression {
	return Add(minuend, Multiply(subtrahend, decimal.NewFromInt(-1)))
}

// Negate returns expression * -1.
func Negate(expression Expression) Expression {
	return Multiply(expression, decimal.NewFromInt(-1))
}

// Multiply returns expression * factor.
func Multiply(expression Expression, factor decimal.Decimal) Expression {
	return Product{Expression: expression, Factor: factor}
}

// Divide returns expression * (1 / divisor).
func Divide(expression Expression, divisor decimal.Decimal) (Expression, error) {
	if divisor.IsZero() {
		return nil, fmt.Errorf("%w: cannot divide %s by zero", ErrDivideByZero, ToHumanReadable(expression))
	}
	return Multiply(expression, quotient(decimal.NewFromInt(1), divisor)), nil
}

// divisionDigits is the number of fractional digits a quotient keeps beyond
// the integer digits of its divisor.
const divisionDigits = 28

// quotient divides with a fixed precision instead of decimal.DivisionPrecision.
func quotient(dividend, divisor decimal.Decimal) decimal.Decimal {
	places := int32(divisionDigits)
	if whole := divisor.Abs().Truncate(0); !whole.IsZero() {
		places += int32(len(whole.String()))
	}
	return dividend.DivRound(divisor, places)
}

// Distribute splits expression into len(factors) weighted parts. An invalid
// precision is left as is and reported by Evaluate.
func Distribute(expression Expression, factors []int, precision decimal.NullDecimal) ([]Expression, error) {
	if err := ValidateFactors(factors); err != nil {
		return nil, err
	}

	d := &Distribution{
		Expression: expression,
		Factors:    append([]int(nil), factors...),
		Precision:  precision,
	}

	return d.Parts(), nil
}

// DistributeEqually splits expression into n equal parts.
func DistributeEqually(expression Expression, n int, precision decimal.NullDecimal) ([]Expression, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: cannot distribute into %d parts", ErrImpossibleDistribution, n)
	}

	factors := make([]int, n)
	for i := range factors {
		factors[i] = 1
	}

	return Distribute(expression, factors, precision)
}
