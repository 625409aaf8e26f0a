package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Evaluate reduces expr to a single Money. ctx may be nil; it is required
// as soon as the expression mixes currencies or rounding strategies.
//
// Intermediate results are never rounded. The final amount is rounded once
// with the strategy of ctx, or with the strategy of the result if ctx is nil.
func Evaluate(expr Expression, ctx *EvaluationContext) (Money, error) {
	e := &evaluator{
		ctx:          ctx,
		distribution: NewDistributionStrategy(ctx),
		totals:       make(map[*Distribution]Money),
	}

	bag, err := e.reduce(expr)
	if err != nil {
		return Money{}, err
	}

	total, err := bag.calculateTotal(ctx)
	if err != nil {
		return Money{}, err
	}

	rounding := total.Rounding()
	if ctx != nil {
		rounding = ctx.RoundingStrategy()
	}

	return total.withAmount(rounding.Round(total.Amount)), nil
}

type evaluator struct {
	ctx          *EvaluationContext
	distribution DistributionStrategy
	totals       map[*Distribution]Money
}

func (e *evaluator) reduce(expr Expression) (*moneyBag, error) {
	switch node := expr.(type) {
	case Money:
		return newMoneyBag(node), nil

	case Sum:
		left, err := e.reduce(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.reduce(node.Right)
		if err != nil {
			return nil, err
		}
		return left.merge(right), nil

	case Product:
		bag, err := e.reduce(node.Expression)
		if err != nil {
			return nil, err
		}
		return bag.multiply(node.Factor), nil

	case DistributionPart:
		total, err := e.distributionTotal(node.Distribution)
		if err != nil {
			return nil, err
		}
		part, err := e.distribution.Distribute(node, total)
		if err != nil {
			return nil, err
		}
		return newMoneyBag(part), nil

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

// distributionTotal evaluates the distributed expression once per
// evaluation; all parts of a distribution observe the same total.
func (e *evaluator) distributionTotal(d *Distribution) (Money, error) {
	if d == nil {
		return Money{}, fmt.Errorf("%w: part without distribution", ErrImpossibleDistribution)
	}

	if total, ok := e.totals[d]; ok {
		return total, nil
	}

	bag, err := e.reduce(d.Expression)
	if err != nil {
		return Money{}, err
	}

	total, err := bag.calculateTotal(e.ctx)
	if err != nil {
		return Money{}, err
	}

	e.totals[d] = total
	return total, nil
}

// DivideMoney returns the dimensionless ratio dividend / divisor. Different
// currencies are converted with ctx first.
func DivideMoney(dividend, divisor Money, ctx *EvaluationContext) (decimal.Decimal, error) {
	if ctx == nil && !dividend.IsZero() && !divisor.IsZero() && dividend.Currency != divisor.Currency {
		return decimal.Zero, fmt.Errorf("%w: cannot divide %s by %s", ErrMissingEvaluationContext, dividend.Currency, divisor.Currency)
	}

	a, err := Evaluate(dividend, ctx)
	if err != nil {
		return decimal.Zero, err
	}

	b, err := Evaluate(divisor, ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if b.Amount.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: divisor %s is zero", ErrDivideByZero, divisor)
	}

	return quotient(a.Amount, b.Amount), nil
}
