package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency identifies a currency and the number of digits of its minor unit.
// Currency is a comparable value and can be used as a map key.
type Currency struct {
	Code            string
	MinorUnitDigits int
}

// NewCurrency validates and creates a Currency.
func NewCurrency(code string, minorUnitDigits int) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if err := ValidateCurrencyCode(code); err != nil {
		return Currency{}, err
	}

	if minorUnitDigits < 0 {
		return Currency{}, fmt.Errorf("%w: %s has negative minor unit digits %d", ErrInvalidCurrency, code, minorUnitDigits)
	}

	return Currency{Code: code, MinorUnitDigits: minorUnitDigits}, nil
}

// MustNewCurrency is like NewCurrency but panics on invalid input.
func MustNewCurrency(code string, minorUnitDigits int) Currency {
	c, err := NewCurrency(code, minorUnitDigits)
	if err != nil {
		panic(err)
	}
	return c
}

// Precision returns the smallest unit of the currency, 10^-MinorUnitDigits.
func (c Currency) Precision() decimal.Decimal {
	return powerOfATenth(c.MinorUnitDigits)
}

// IsZero reports whether c is the unset currency carried by Zero.
func (c Currency) IsZero() bool {
	return c.Code == ""
}

func (c Currency) String() string {
	return c.Code
}

func powerOfATenth(exponent int) decimal.Decimal {
	return decimal.New(1, -int32(exponent))
}

// CurrencyInfo is the ISO 4217 metadata of a currency.
type CurrencyInfo struct {
	Name            string
	AlphabeticCode  string
	NumericCode     int
	MinorUnitDigits int
}

// Currency returns the currency described by i.
func (i CurrencyInfo) Currency() (Currency, error) {
	return NewCurrency(i.AlphabeticCode, i.MinorUnitDigits)
}
