package usecase

import "github.com/iho/gomoney/internal/domain"

// CurrencyUseCase exposes currency metadata.
type CurrencyUseCase struct {
	provider CurrencyProvider
}

// NewCurrencyUseCase creates a new CurrencyUseCase.
func NewCurrencyUseCase(provider CurrencyProvider) *CurrencyUseCase {
	return &CurrencyUseCase{provider: provider}
}

// GetCurrency returns the metadata of code.
func (uc *CurrencyUseCase) GetCurrency(code string) (domain.CurrencyInfo, error) {
	return uc.provider.Lookup(code)
}

// ListCurrencies returns all known currencies.
func (uc *CurrencyUseCase) ListCurrencies() ([]domain.CurrencyInfo, error) {
	return uc.provider.All()
}

// Currency resolves code to a domain currency.
func (uc *CurrencyUseCase) Currency(code string) (domain.Currency, error) {
	return uc.provider.Currency(code)
}
