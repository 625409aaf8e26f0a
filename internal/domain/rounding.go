package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects the policy of a RoundingStrategy.
type RoundingMode int

const (
	roundingUnset RoundingMode = iota
	RoundingModeBankers
	RoundingModeAwayFromZero
	RoundingModeNone
)

var roundingModeNames = map[RoundingMode]string{
	RoundingModeBankers:      "bankers",
	RoundingModeAwayFromZero: "away_from_zero",
	RoundingModeNone:         "none",
}

func (m RoundingMode) String() string {
	if name, ok := roundingModeNames[m]; ok {
		return name
	}
	return "unset"
}

// ParseRoundingMode parses the wire name of a rounding mode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range roundingModeNames {
		if name == s {
			return mode, nil
		}
	}
	return roundingUnset, fmt.Errorf("unknown rounding mode %q", s)
}

var two = decimal.NewFromInt(2)

// RoundingStrategy rounds amounts to a multiple of its precision.
// Two strategies are equal when mode and precision are equal.
type RoundingStrategy struct {
	mode      RoundingMode
	precision decimal.Decimal
}

// NewRoundingStrategy creates a strategy of the given mode. The precision is
// ignored for RoundingModeNone.
func NewRoundingStrategy(mode RoundingMode, precision decimal.Decimal) (RoundingStrategy, error) {
	switch mode {
	case RoundingModeNone:
		return NoRounding(), nil
	case RoundingModeBankers, RoundingModeAwayFromZero:
		if !precision.IsPositive() {
			return RoundingStrategy{}, fmt.Errorf("%w: got %s", ErrInvalidPrecision, precision)
		}
		return RoundingStrategy{mode: mode, precision: precision}, nil
	default:
		return RoundingStrategy{}, fmt.Errorf("unknown rounding mode %d", mode)
	}
}

// NewBankersRounding rounds half to even at the given precision.
func NewBankersRounding(precision decimal.Decimal) (RoundingStrategy, error) {
	return NewRoundingStrategy(RoundingModeBankers, precision)
}

// NewRoundAwayFromZero rounds half away from zero at the given precision.
func NewRoundAwayFromZero(precision decimal.Decimal) (RoundingStrategy, error) {
	return NewRoundingStrategy(RoundingModeAwayFromZero, precision)
}

// BankersRoundingFor rounds half to even at the minor unit of currency.
func BankersRoundingFor(currency Currency) RoundingStrategy {
	return RoundingStrategy{mode: RoundingModeBankers, precision: currency.Precision()}
}

// RoundAwayFromZeroFor rounds half away from zero at the minor unit of currency.
func RoundAwayFromZeroFor(currency Currency) RoundingStrategy {
	return RoundingStrategy{mode: RoundingModeAwayFromZero, precision: currency.Precision()}
}

// NoRounding leaves every value untouched.
func NoRounding() RoundingStrategy {
	return RoundingStrategy{mode: RoundingModeNone}
}

// DefaultRounding is the strategy a Money gets from its currency.
func DefaultRounding(currency Currency) RoundingStrategy {
	return BankersRoundingFor(currency)
}

// Mode returns the rounding policy.
func (s RoundingStrategy) Mode() RoundingMode {
	return s.mode
}

// Precision returns the rounding unit; zero for NoRounding.
func (s RoundingStrategy) Precision() decimal.Decimal {
	return s.precision
}

// IsZero reports whether s is the zero value, which carries no policy.
func (s RoundingStrategy) IsZero() bool {
	return s.mode == roundingUnset
}

// Round rounds value to the nearest multiple of the precision.
func (s RoundingStrategy) Round(value decimal.Decimal) decimal.Decimal {
	switch s.mode {
	case RoundingModeBankers, RoundingModeAwayFromZero:
		return roundToMultiple(value, s.precision, s.mode)
	default:
		return value
	}
}

// IsSameAfterRounding reports whether value is exactly representable.
func (s RoundingStrategy) IsSameAfterRounding(value decimal.Decimal) bool {
	return s.Round(value).Equal(value)
}

// Equal compares mode and precision.
func (s RoundingStrategy) Equal(other RoundingStrategy) bool {
	if s.mode != other.mode {
		return false
	}
	if s.mode == RoundingModeNone || s.mode == roundingUnset {
		return true
	}
	return s.precision.Equal(other.precision)
}

func (s RoundingStrategy) String() string {
	switch s.mode {
	case RoundingModeBankers:
		return fmt.Sprintf("BankersRounding { Precision: %s }", s.precision)
	case RoundingModeAwayFromZero:
		return fmt.Sprintf("Round { MidpointRounding: AwayFromZero, Precision: %s }", s.precision)
	case RoundingModeNone:
		return "NoRounding"
	default:
		return "Unset"
	}
}

// roundToMultiple works on the exact integer quotient and remainder of
// value / precision, so no digits are lost to division precision.
func roundToMultiple(value, precision decimal.Decimal, mode RoundingMode) decimal.Decimal {
	q, r := value.QuoRem(precision, 0)
	if r.IsZero() {
		return q.Mul(precision)
	}

	away := false
	switch r.Abs().Mul(two).Cmp(precision) {
	case 1:
		away = true
	case 0:
		away = mode == RoundingModeAwayFromZero || !q.Mod(two).IsZero()
	}

	if away {
		if value.IsNegative() {
			q = q.Sub(decimal.NewFromInt(1))
		} else {
			q = q.Add(decimal.NewFromInt(1))
		}
	}

	return q.Mul(precision)
}
