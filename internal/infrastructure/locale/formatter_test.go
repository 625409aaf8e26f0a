package locale

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/infrastructure/iso4217"
)

var (
	chf = domain.MustNewCurrency("CHF", 2)
	eur = domain.MustNewCurrency("EUR", 2)
	usd = domain.MustNewCurrency("USD", 2)
	jpy = domain.MustNewCurrency("JPY", 0)
	gbp = domain.MustNewCurrency("GBP", 2)
	inr = domain.MustNewCurrency("INR", 2)
)

func money(amount string, c domain.Currency) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), c)
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name     string
		money    domain.Money
		tag      string
		expected string
	}{
		{"american dollars", money("1234.5", usd), "en-US", "$1,234.50"},
		{"negative dollars", money("-1234567.891", usd), "en-US", "-$1,234,567.89"},
		{"german euros", money("1234.5", eur), "de-DE", "1.234,50\u00a0€"},
		{"small amount", money("0.05", chf), "de-CH", "CHF 0.05"},
		{"pounds in american english", money("12.3", gbp), "en-US", "£12.30"},
		{"rupees in american english", money("99", inr), "en-US", "₹99.00"},
		{"unknown locale", money("1234.5", chf), "sw-KE", "1234.50 CHF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(tt.money, language.MustParse(tt.tag))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatter_FormatUsesLocaleSeparators(t *testing.T) {
	f := NewFormatter()

	swiss := f.Format(money("1234.5", chf), language.MustParse("de-CH"))
	assert.True(t, strings.HasPrefix(swiss, "CHF 1"), swiss)
	assert.True(t, strings.HasSuffix(swiss, "234.50"), swiss)
	assert.NotEqual(t, "CHF 1234.50", swiss, "expected a group separator")

	french := f.Format(money("1234.5", eur), language.MustParse("fr-FR"))
	assert.True(t, strings.HasSuffix(french, "234,50\u00a0€"), french)

	yen := f.Format(money("1234", jpy), language.MustParse("ja-JP"))
	assert.True(t, strings.HasSuffix(yen, "1,234"), yen)
	assert.NotContains(t, yen, "JPY")
}

func TestSeparators(t *testing.T) {
	tests := []struct {
		tag     string
		decimal string
		group   string
	}{
		{"en-US", ".", ","},
		{"de-DE", ",", "."},
		{"it-IT", ",", "."},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			decimalSep, groupSep, ok := separators(message.NewPrinter(language.MustParse(tt.tag)))
			require.True(t, ok)
			assert.Equal(t, tt.decimal, decimalSep)
			assert.Equal(t, tt.group, groupSep)
		})
	}
}

func TestFormatter_RoundTrip(t *testing.T) {
	f := NewFormatter()

	amounts := []domain.Money{
		money("0", chf),
		money("0.01", chf),
		money("-999.99", eur),
		money("1234567.89", usd),
		money("1000000", jpy),
		money("-42.42", gbp),
		money("1234.56", inr),
	}
	tags := []string{"en-US", "en-GB", "de-CH", "de-DE", "fr-CH", "fr-FR", "it-IT", "ja-JP", "sw-KE"}

	for _, m := range amounts {
		for _, tag := range tags {
			lang := language.MustParse(tag)
			formatted := f.Format(m, lang)

			parsed, err := f.Parse(formatted, m.Currency, lang)
			require.NoError(t, err, "%s in %s", formatted, tag)
			assert.True(t, parsed.Equal(m), "%s in %s parsed as %s", formatted, tag, parsed)
		}
	}
}

func TestFormatter_Parse(t *testing.T) {
	f := NewFormatter()

	m, err := f.Parse("1234.50 chf", chf, language.MustParse("sw-KE"))
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("1234.5")))

	_, err = f.Parse("", chf, language.AmericanEnglish)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	_, err = f.Parse("twelve francs", chf, language.AmericanEnglish)
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	_, err = f.Parse("1234.50 EUR", chf, language.MustParse("sw-KE"))
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestCurrencyForLocale(t *testing.T) {
	provider := iso4217.NewProvider()

	tests := map[string]string{
		"de-CH": "CHF",
		"fr-FR": "EUR",
		"en-US": "USD",
		"ja-JP": "JPY",
		"en-GB": "GBP",
	}

	for tag, code := range tests {
		c, err := CurrencyForLocale(language.MustParse(tag), provider)
		require.NoError(t, err, tag)
		assert.Equal(t, code, c.Code, tag)
	}

	_, err := CurrencyForLocale(language.MustParse("en-150"), provider)
	assert.True(t, errors.Is(err, ErrNoLocalCurrency))
}
