package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gomoney/internal/adapter/http/dto"
	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/usecase"
)

// RateService defines the behavior needed by RateHandler.
type RateService interface {
	SetRate(ctx context.Context, input usecase.SetRateInput) (domain.ExchangeRate, error)
	DeleteRate(ctx context.Context, source, target string) error
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// RateHandler handles exchange rate requests.
type RateHandler struct {
	rateUC RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC RateService) *RateHandler {
	return &RateHandler{rateUC: rateUC}
}

// List lists the stored exchange rates.
func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateUC.ListRates(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list rates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RatesFromDomain(rates))
}

// Set stores an exchange rate.
func (h *RateHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rate, err := h.rateUC.SetRate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RateFromDomain(rate))
}

// Delete removes the exchange rate of a pair.
func (h *RateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	target := chi.URLParam(r, "target")

	if err := h.rateUC.DeleteRate(r.Context(), source, target); err != nil {
		status := mapDomainError(err)
		if errors.Is(err, domain.ErrMissingExchangeRate) {
			status = http.StatusNotFound
		}
		writeError(w, status, "failed to delete rate", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
