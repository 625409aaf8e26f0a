package domain

import (
	"fmt"
	"regexp"
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrencyCode validates the shape of an ISO 4217 alphabetic code.
// Whether the code is actually assigned is up to the currency provider.
func ValidateCurrencyCode(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q is not a three letter currency code", ErrInvalidCurrency, code)
	}

	return nil
}

// ValidateFactors validates distribution factors.
func ValidateFactors(factors []int) error {
	if len(factors) == 0 {
		return fmt.Errorf("%w: at least one factor is required", ErrImpossibleDistribution)
	}

	for i, f := range factors {
		if f <= 0 {
			return fmt.Errorf("%w: factor %d at index %d must be positive", ErrImpossibleDistribution, f, i)
		}
	}

	return nil
}
