package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/usecase"
)

// MaxExpressionDepth bounds the nesting of a decoded expression.
const MaxExpressionDepth = 64

// CurrencyResolver resolves ISO 4217 codes.
type CurrencyResolver interface {
	Currency(code string) (domain.Currency, error)
}

// Expression is the wire form of a money expression. Exactly one field
// must be set.
type Expression struct {
	Money      *MoneyLiteral `json:"money,omitempty"`
	Sum        []Expression  `json:"sum,omitempty"`
	Difference []Expression  `json:"difference,omitempty"`
	Product    *Product      `json:"product,omitempty"`
	Quotient   *Quotient     `json:"quotient,omitempty"`
	Part       *Part         `json:"part,omitempty"`
}

// MoneyLiteral is a leaf amount. Without rounding the currency default applies.
type MoneyLiteral struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Rounding *Rounding       `json:"rounding,omitempty"`
}

// Rounding selects a rounding strategy by name.
type Rounding struct {
	Mode      string              `json:"mode"`
	Precision decimal.NullDecimal `json:"precision"`
}

// Product scales an expression.
type Product struct {
	Expression Expression      `json:"expression"`
	Factor     decimal.Decimal `json:"factor"`
}

// Quotient divides an expression by a scalar.
type Quotient struct {
	Expression Expression      `json:"expression"`
	Divisor    decimal.Decimal `json:"divisor"`
}

// Part is one part of a fair distribution of an expression.
type Part struct {
	Expression Expression          `json:"expression"`
	Factors    []int               `json:"factors"`
	Precision  decimal.NullDecimal `json:"precision"`
	Index      int                 `json:"index"`
}

// ToDomain builds the domain expression.
func (e *Expression) ToDomain(currencies CurrencyResolver) (domain.Expression, error) {
	return e.toDomain(currencies, 0)
}

func (e *Expression) toDomain(currencies CurrencyResolver, depth int) (domain.Expression, error) {
	if depth > MaxExpressionDepth {
		return nil, fmt.Errorf("%w: expression nested deeper than %d", usecase.ErrInvalidInput, MaxExpressionDepth)
	}

	if n := e.kinds(); n != 1 {
		return nil, fmt.Errorf("%w: expression must have exactly one of money, sum, difference, product, quotient, part; got %d", usecase.ErrInvalidInput, n)
	}

	switch {
	case e.Money != nil:
		return e.Money.ToDomain(currencies)

	case e.Sum != nil:
		return fold(e.Sum, currencies, depth, "sum", domain.Add)

	case e.Difference != nil:
		return fold(e.Difference, currencies, depth, "difference", domain.Subtract)

	case e.Product != nil:
		inner, err := e.Product.Expression.toDomain(currencies, depth+1)
		if err != nil {
			return nil, err
		}
		return domain.Multiply(inner, e.Product.Factor), nil

	case e.Quotient != nil:
		inner, err := e.Quotient.Expression.toDomain(currencies, depth+1)
		if err != nil {
			return nil, err
		}
		return domain.Divide(inner, e.Quotient.Divisor)

	default:
		inner, err := e.Part.Expression.toDomain(currencies, depth+1)
		if err != nil {
			return nil, err
		}

		parts, err := domain.Distribute(inner, e.Part.Factors, e.Part.Precision)
		if err != nil {
			return nil, err
		}

		if e.Part.Index < 0 || e.Part.Index >= len(parts) {
			return nil, fmt.Errorf("%w: part index %d out of range for %d factors", usecase.ErrInvalidInput, e.Part.Index, len(parts))
		}
		return parts[e.Part.Index], nil
	}
}

func (e *Expression) kinds() int {
	n := 0
	for _, set := range []bool{e.Money != nil, e.Sum != nil, e.Difference != nil, e.Product != nil, e.Quotient != nil, e.Part != nil} {
		if set {
			n++
		}
	}
	return n
}

func fold(operands []Expression, currencies CurrencyResolver, depth int, name string, combine func(a, b domain.Expression) domain.Expression) (domain.Expression, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least two operands, got %d", usecase.ErrInvalidInput, name, len(operands))
	}

	result, err := operands[0].toDomain(currencies, depth+1)
	if err != nil {
		return nil, err
	}

	for i := range operands[1:] {
		next, err := operands[i+1].toDomain(currencies, depth+1)
		if err != nil {
			return nil, err
		}
		result = combine(result, next)
	}

	return result, nil
}

// ToDomain resolves the currency and rounding of the literal.
func (m *MoneyLiteral) ToDomain(currencies CurrencyResolver) (domain.Money, error) {
	currency, err := currencies.Currency(m.Currency)
	if err != nil {
		return domain.Money{}, err
	}

	money := domain.NewMoney(m.Amount, currency)
	if m.Rounding != nil {
		strategy, err := m.Rounding.ToDomain(currency)
		if err != nil {
			return domain.Money{}, err
		}
		money.RoundingStrategy = strategy
	}

	return money, nil
}

// ToDomain builds the strategy; without a precision the minor unit of
// currency is used.
func (r *Rounding) ToDomain(currency domain.Currency) (domain.RoundingStrategy, error) {
	mode, err := domain.ParseRoundingMode(r.Mode)
	if err != nil {
		return domain.RoundingStrategy{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	precision := currency.Precision()
	if r.Precision.Valid {
		precision = r.Precision.Decimal
	}

	return domain.NewRoundingStrategy(mode, precision)
}
