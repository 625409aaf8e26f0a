// Package locale formats and parses money amounts for a language tag.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/iho/gomoney/internal/domain"
)

var (
	ErrInvalidFormat   = errors.New("invalid money format")
	ErrNoLocalCurrency = errors.New("locale has no currency")
)

const (
	nbsp       = "\u00a0"
	narrowNbsp = "\u202f"
)

// placement is the position of the currency symbol relative to the
// digits. x/text formats currency amounts without CLDR currency patterns, so
// this is the one piece of locale data kept here.
type placement struct {
	symbolFirst   bool
	symbolSpacing string
}

var supported = []struct {
	tag       language.Tag
	placement placement
}{
	{language.AmericanEnglish, placement{true, ""}},
	{language.BritishEnglish, placement{true, ""}},
	{language.MustParse("de-CH"), placement{true, " "}},
	{language.German, placement{false, nbsp}},
	{language.MustParse("fr-CH"), placement{false, nbsp}},
	{language.French, placement{false, nbsp}},
	{language.Italian, placement{false, nbsp}},
	{language.Japanese, placement{true, ""}},
}

// culture is the CLDR number and currency data of one locale.
type culture struct {
	placement

	decimalSeparator string
	groupSeparator   string
	printer          *message.Printer
}

// separatorSample is printed in a locale to read off its separators.
const separatorSample = 1234567.8

// Formatter renders money in the conventions of a locale. Locales it has no
// conventions for get the generic "1234.50 CHF" format.
type Formatter struct {
	matcher language.Matcher
}

// NewFormatter returns a formatter for the built-in locales.
func NewFormatter() *Formatter {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}

	return &Formatter{matcher: language.NewMatcher(tags)}
}

func (f *Formatter) culture(tag language.Tag) (culture, bool) {
	_, index, confidence := f.matcher.Match(tag)
	if confidence == language.No {
		return culture{}, false
	}

	printer := message.NewPrinter(tag)
	decimalSep, groupSep, ok := separators(printer)
	if !ok {
		return culture{}, false
	}

	return culture{
		placement:        supported[index].placement,
		decimalSeparator: decimalSep,
		groupSeparator:   groupSep,
		printer:          printer,
	}, true
}

// separators reads the decimal and group separators of the printer's locale
// from a formatted sample. ok is false for locales without Latin digits.
func separators(p *message.Printer) (decimalSep, groupSep string, ok bool) {
	sample := p.Sprint(number.Decimal(separatorSample, number.Scale(1)))

	lead := strings.Index(sample, "1")
	group := strings.Index(sample, "234")
	tail := strings.Index(sample, "567")
	fraction := strings.LastIndex(sample, "8")
	if lead < 0 || group < lead || tail < group || fraction < tail+3 {
		return "", "", false
	}

	decimalSep = sample[tail+3 : fraction]
	if decimalSep == "" {
		return "", "", false
	}
	return decimalSep, sample[lead+1 : group], true
}

// Format renders m rounded to its currency.
func (f *Formatter) Format(m domain.Money, tag language.Tag) string {
	amount := m.Rounding().Round(m.Amount)

	c, ok := f.culture(tag)
	if !ok || m.Currency.IsZero() {
		return generic(amount, m.Currency)
	}

	digits := amountDigits(amount.Abs(), m.Currency.MinorUnitDigits, c)
	symbol := c.symbol(m.Currency)

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("-")
	}
	if c.symbolFirst {
		b.WriteString(symbol)
		b.WriteString(c.symbolSpacing)
		b.WriteString(digits)
	} else {
		b.WriteString(digits)
		b.WriteString(c.symbolSpacing)
		b.WriteString(symbol)
	}

	return b.String()
}

// Parse reads s as an amount of cur written in the conventions of tag, or
// in the generic format if there are none for tag.
func (f *Formatter) Parse(s string, cur domain.Currency, tag language.Tag) (domain.Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return domain.Money{}, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	c, ok := f.culture(tag)
	if !ok {
		amount, err := parseGeneric(raw, cur)
		if err != nil {
			return domain.Money{}, fmt.Errorf("%w: %q is not of the form \"1234.50 %s\"", ErrInvalidFormat, s, cur.Code)
		}
		return domain.NewMoney(amount, cur), nil
	}

	cleaned := strings.ReplaceAll(raw, c.symbol(cur), "")
	cleaned = strings.ReplaceAll(cleaned, cur.Code, "")
	cleaned = removeSpaces(cleaned)
	if c.groupSeparator != "" {
		cleaned = strings.ReplaceAll(cleaned, c.groupSeparator, "")
	}
	cleaned = strings.ReplaceAll(cleaned, c.decimalSeparator, ".")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return domain.NewMoney(amount, cur), nil
}

// CurrencyLookup resolves an ISO 4217 code.
type CurrencyLookup interface {
	Currency(code string) (domain.Currency, error)
}

// CurrencyForLocale infers the currency used in the region of tag.
func CurrencyForLocale(tag language.Tag, lookup CurrencyLookup) (domain.Currency, error) {
	region, confidence := tag.Region()
	if confidence == language.No {
		return domain.Currency{}, fmt.Errorf("%w: %s has no region", ErrNoLocalCurrency, tag)
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: no currency for region %s", ErrNoLocalCurrency, region)
	}

	return lookup.Currency(unit.String())
}

func parseGeneric(s string, cur domain.Currency) (decimal.Decimal, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 || !strings.EqualFold(fields[1], cur.Code) {
		return decimal.Zero, ErrInvalidFormat
	}
	return decimal.NewFromString(fields[0])
}

func generic(amount decimal.Decimal, cur domain.Currency) string {
	if cur.IsZero() {
		return amount.String()
	}
	return amount.StringFixed(int32(cur.MinorUnitDigits)) + " " + cur.Code
}

func amountDigits(amount decimal.Decimal, minorUnitDigits int, c culture) string {
	fixed := amount.StringFixed(int32(minorUnitDigits))

	integer, fraction, hasFraction := strings.Cut(fixed, ".")
	grouped := groupThousands(integer, c.groupSeparator)
	if !hasFraction {
		return grouped
	}
	return grouped + c.decimalSeparator + fraction
}

func groupThousands(integer, separator string) string {
	if len(integer) <= 3 {
		return integer
	}

	var b strings.Builder
	head := len(integer) % 3
	if head > 0 {
		b.WriteString(integer[:head])
	}
	for i := head; i < len(integer); i += 3 {
		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(integer[i : i+3])
	}
	return b.String()
}

// symbol returns the CLDR symbol of cur in the culture's locale, or the
// code for currencies x/text does not know.
func (c culture) symbol(cur domain.Currency) string {
	unit, err := currency.ParseISO(cur.Code)
	if err != nil {
		return cur.Code
	}
	return c.printer.Sprint(currency.Symbol(unit))
}

func removeSpaces(s string) string {
	return strings.NewReplacer(" ", "", nbsp, "", narrowNbsp, "").Replace(s)
}
