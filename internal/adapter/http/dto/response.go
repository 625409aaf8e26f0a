package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/usecase"
)

// MoneyResponse represents a money value in API responses.
type MoneyResponse struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted,omitempty"`
}

// Format renders a Money for a locale.
type Format func(domain.Money) string

// MoneyFromDomain converts a domain money to response. format may be nil.
func MoneyFromDomain(m domain.Money, format Format) MoneyResponse {
	resp := MoneyResponse{
		Amount:   amountString(m),
		Currency: m.Currency.Code,
	}
	if format != nil && !m.Currency.IsZero() {
		resp.Formatted = format(m)
	}
	return resp
}

// amountString pads to the minor unit of the currency unless the amount
// carries more digits, as distributions with a finer unit do.
func amountString(m domain.Money) string {
	digits := int32(m.Currency.MinorUnitDigits)
	if m.Currency.IsZero() || -m.Amount.Exponent() > digits {
		return m.Amount.String()
	}
	return m.Amount.StringFixed(digits)
}

// EvaluationResponse represents an evaluation result.
type EvaluationResponse struct {
	ID string `json:"id"`
	MoneyResponse
	Expression string `json:"expression"`
}

// EvaluationFromUseCase converts a use case result to response.
func EvaluationFromUseCase(r *usecase.EvaluationResult, format Format) *EvaluationResponse {
	return &EvaluationResponse{
		ID:            r.ID,
		MoneyResponse: MoneyFromDomain(r.Money, format),
		Expression:    r.Expression,
	}
}

// DistributionResponse represents a distribution result.
type DistributionResponse struct {
	ID    string          `json:"id"`
	Total MoneyResponse   `json:"total"`
	Parts []MoneyResponse `json:"parts"`
}

// DistributionFromUseCase converts a use case result to response.
func DistributionFromUseCase(r *usecase.DistributionResult, format Format) *DistributionResponse {
	parts := make([]MoneyResponse, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = MoneyFromDomain(p, format)
	}
	return &DistributionResponse{
		ID:    r.ID,
		Total: MoneyFromDomain(r.Total, format),
		Parts: parts,
	}
}

// RateResponse represents an exchange rate in API responses.
type RateResponse struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Rate   decimal.Decimal `json:"rate"`
}

// RateFromDomain converts a domain exchange rate to response.
func RateFromDomain(r domain.ExchangeRate) RateResponse {
	return RateResponse{
		Source: r.Source.Code,
		Target: r.Target.Code,
		Rate:   r.Rate,
	}
}

// RatesFromDomain converts domain exchange rates to responses.
func RatesFromDomain(rates []domain.ExchangeRate) []RateResponse {
	result := make([]RateResponse, len(rates))
	for i, r := range rates {
		result[i] = RateFromDomain(r)
	}
	return result
}

// CurrencyResponse represents ISO 4217 metadata in API responses.
type CurrencyResponse struct {
	Code      string `json:"code"`
	Numeric   int    `json:"numeric"`
	MinorUnit int    `json:"minor_unit"`
	Name      string `json:"name"`
}

// CurrencyFromDomain converts currency metadata to response.
func CurrencyFromDomain(c domain.CurrencyInfo) CurrencyResponse {
	return CurrencyResponse{
		Code:      c.AlphabeticCode,
		Numeric:   c.NumericCode,
		MinorUnit: c.MinorUnitDigits,
		Name:      c.Name,
	}
}

// CurrenciesFromDomain converts currency metadata to responses.
func CurrenciesFromDomain(currencies []domain.CurrencyInfo) []CurrencyResponse {
	result := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
