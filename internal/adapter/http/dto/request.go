package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gomoney/internal/usecase"
)

// ContextRequest describes an evaluation context.
type ContextRequest struct {
	TargetCurrency   string                `json:"target_currency"`
	Rounding         *Rounding             `json:"rounding,omitempty"`
	DistributionUnit decimal.NullDecimal   `json:"distribution_unit"`
	ExchangeRates    []ExchangeRateRequest `json:"exchange_rates,omitempty"`
	UseRateStore     bool                  `json:"use_rate_store,omitempty"`
}

// ExchangeRateRequest is the rate from Source into the context target currency.
type ExchangeRateRequest struct {
	Source string          `json:"source"`
	Rate   decimal.Decimal `json:"rate"`
}

// ToUseCaseInput converts to use case input. A nil request yields nil.
func (r *ContextRequest) ToUseCaseInput() *usecase.ContextInput {
	if r == nil {
		return nil
	}

	input := &usecase.ContextInput{
		TargetCurrency:   r.TargetCurrency,
		DistributionUnit: r.DistributionUnit,
		UseRateStore:     r.UseRateStore,
	}

	if r.Rounding != nil {
		input.Rounding = &usecase.RoundingInput{Mode: r.Rounding.Mode, Precision: r.Rounding.Precision}
	}

	for _, rate := range r.ExchangeRates {
		input.ExchangeRates = append(input.ExchangeRates, usecase.ExchangeRateInput{Source: rate.Source, Rate: rate.Rate})
	}

	return input
}

// EvaluateRequest represents a request to evaluate an expression.
type EvaluateRequest struct {
	Expression Expression      `json:"expression"`
	Context    *ContextRequest `json:"context,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EvaluateRequest) ToUseCaseInput(currencies CurrencyResolver) (usecase.EvaluateInput, error) {
	expr, err := r.Expression.ToDomain(currencies)
	if err != nil {
		return usecase.EvaluateInput{}, err
	}

	return usecase.EvaluateInput{
		Expression: expr,
		Context:    r.Context.ToUseCaseInput(),
	}, nil
}

// DistributeRequest represents a request to distribute an amount. Either
// Factors or Parts must be given; Parts splits into equal shares.
type DistributeRequest struct {
	Amount    decimal.Decimal     `json:"amount"`
	Currency  string              `json:"currency"`
	Factors   []int               `json:"factors,omitempty"`
	Parts     int                 `json:"parts,omitempty"`
	Precision decimal.NullDecimal `json:"precision"`
	Context   *ContextRequest     `json:"context,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DistributeRequest) ToUseCaseInput(currencies CurrencyResolver) (usecase.DistributeInput, error) {
	total, err := (&MoneyLiteral{Amount: r.Amount, Currency: r.Currency}).ToDomain(currencies)
	if err != nil {
		return usecase.DistributeInput{}, err
	}

	factors := r.Factors
	if len(factors) == 0 && r.Parts > 0 && r.Parts <= usecase.MaxDistributionParts {
		factors = make([]int, r.Parts)
		for i := range factors {
			factors[i] = 1
		}
	}

	return usecase.DistributeInput{
		Total:     total,
		Factors:   factors,
		Precision: r.Precision,
		Context:   r.Context.ToUseCaseInput(),
	}, nil
}

// SetRateRequest represents a request to store an exchange rate.
type SetRateRequest struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Rate   decimal.Decimal `json:"rate"`
}

// ToUseCaseInput converts to use case input.
func (r *SetRateRequest) ToUseCaseInput() usecase.SetRateInput {
	return usecase.SetRateInput{
		Source: r.Source,
		Target: r.Target,
		Rate:   r.Rate,
	}
}
