package handler

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/iho/gomoney/internal/adapter/http/dto"
	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/usecase"
)

// EvaluationService defines the behavior needed by EvaluationHandler.
type EvaluationService interface {
	Evaluate(ctx context.Context, input usecase.EvaluateInput) (*usecase.EvaluationResult, error)
}

// DistributionService defines the behavior needed by EvaluationHandler.Distribute.
type DistributionService interface {
	Distribute(ctx context.Context, input usecase.DistributeInput) (*usecase.DistributionResult, error)
}

// MoneyFormatter renders money for a locale.
type MoneyFormatter interface {
	Format(m domain.Money, tag language.Tag) string
}

// EvaluationHandler handles expression evaluation and distribution requests.
type EvaluationHandler struct {
	evaluations   EvaluationService
	distributions DistributionService
	currencies    dto.CurrencyResolver
	formatter     MoneyFormatter
	defaultLocale language.Tag
}

// NewEvaluationHandler creates a new EvaluationHandler. formatter may be nil.
func NewEvaluationHandler(
	evaluations EvaluationService,
	distributions DistributionService,
	currencies dto.CurrencyResolver,
	formatter MoneyFormatter,
	defaultLocale language.Tag,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations:   evaluations,
		distributions: distributions,
		currencies:    currencies,
		formatter:     formatter,
		defaultLocale: defaultLocale,
	}
}

// Evaluate evaluates an expression.
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currencies)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid expression", err.Error())
		return
	}

	result, err := h.evaluations.Evaluate(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to evaluate expression", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EvaluationFromUseCase(result, h.format(r)))
}

// Distribute splits an amount into fair parts.
func (h *EvaluationHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	var req dto.DistributeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(h.currencies)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid distribution", err.Error())
		return
	}

	result, err := h.distributions.Distribute(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to distribute", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DistributionFromUseCase(result, h.format(r)))
}

func (h *EvaluationHandler) format(r *http.Request) dto.Format {
	if h.formatter == nil {
		return nil
	}

	tag := requestLocale(r, h.defaultLocale)
	return func(m domain.Money) string {
		return h.formatter.Format(m, tag)
	}
}
