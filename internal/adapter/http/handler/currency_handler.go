package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gomoney/internal/adapter/http/dto"
	"github.com/iho/gomoney/internal/domain"
)

// CurrencyService defines the behavior needed by CurrencyHandler.
type CurrencyService interface {
	GetCurrency(code string) (domain.CurrencyInfo, error)
	ListCurrencies() ([]domain.CurrencyInfo, error)
}

// CurrencyHandler handles currency metadata requests.
type CurrencyHandler struct {
	currencyUC CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyUC CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyUC: currencyUC}
}

// List lists all known currencies.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyUC.ListCurrencies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list currencies", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// Get retrieves a currency by code.
func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	currency, err := h.currencyUC.GetCurrency(code)
	if err != nil {
		status := mapDomainError(err)
		if errors.Is(err, domain.ErrInvalidCurrency) {
			status = http.StatusNotFound
		}
		writeError(w, status, "failed to get currency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}
