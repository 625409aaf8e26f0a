// Package iso4217 provides ISO 4217 currency metadata from an embedded table.
package iso4217

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/iho/gomoney/internal/domain"
)

//go:embed currencies.yaml
var embeddedTable []byte

// ErrUnknownCurrency is returned for codes missing from the table.
var ErrUnknownCurrency = errors.New("unknown currency")

type entry struct {
	Name      string `yaml:"name"`
	Code      string `yaml:"code"`
	Numeric   int    `yaml:"numeric"`
	MinorUnit int    `yaml:"minor_unit"`
}

type table struct {
	Currencies []entry `yaml:"currencies"`
}

// Provider looks up currency metadata. The table is parsed on first use and
// read-only afterwards, so a Provider is safe for concurrent use.
type Provider struct {
	data []byte

	once    sync.Once
	records map[string]domain.CurrencyInfo
	sorted  []domain.CurrencyInfo
	err     error
}

// NewProvider returns a provider backed by the embedded table.
func NewProvider() *Provider {
	return &Provider{data: embeddedTable}
}

// NewProviderFromYAML returns a provider backed by a custom table.
func NewProviderFromYAML(data []byte) *Provider {
	return &Provider{data: data}
}

func (p *Provider) load() error {
	p.once.Do(func() {
		var t table
		if err := yaml.Unmarshal(p.data, &t); err != nil {
			p.err = fmt.Errorf("failed to parse currency table: %w", err)
			return
		}

		p.records = make(map[string]domain.CurrencyInfo, len(t.Currencies))
		for _, e := range t.Currencies {
			if err := domain.ValidateCurrencyCode(e.Code); err != nil {
				p.err = fmt.Errorf("currency table: %w", err)
				return
			}
			if e.MinorUnit < 0 {
				p.err = fmt.Errorf("currency table: %s has negative minor unit", e.Code)
				return
			}
			p.records[e.Code] = domain.CurrencyInfo{
				Name:            e.Name,
				AlphabeticCode:  e.Code,
				NumericCode:     e.Numeric,
				MinorUnitDigits: e.MinorUnit,
			}
		}

		p.sorted = make([]domain.CurrencyInfo, 0, len(p.records))
		for _, r := range p.records {
			p.sorted = append(p.sorted, r)
		}
		sort.Slice(p.sorted, func(i, j int) bool {
			return p.sorted[i].AlphabeticCode < p.sorted[j].AlphabeticCode
		})
	})

	return p.err
}

// Lookup returns the record of code, case-insensitively.
func (p *Provider) Lookup(code string) (domain.CurrencyInfo, error) {
	if err := p.load(); err != nil {
		return domain.CurrencyInfo{}, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	r, ok := p.records[normalized]
	if !ok {
		return domain.CurrencyInfo{}, fmt.Errorf("%w: %q (%w)", ErrUnknownCurrency, code, domain.ErrInvalidCurrency)
	}

	return r, nil
}

// Currency returns the domain currency of code.
func (p *Provider) Currency(code string) (domain.Currency, error) {
	r, err := p.Lookup(code)
	if err != nil {
		return domain.Currency{}, err
	}

	return r.Currency()
}

// All returns every record sorted by alphabetic code.
func (p *Provider) All() ([]domain.CurrencyInfo, error) {
	if err := p.load(); err != nil {
		return nil, err
	}

	result := make([]domain.CurrencyInfo, len(p.sorted))
	copy(result, p.sorted)
	return result, nil
}
