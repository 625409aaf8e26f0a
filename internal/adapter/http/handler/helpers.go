package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/text/language"

	"github.com/iho/gomoney/internal/adapter/http/dto"
	"github.com/iho/gomoney/internal/domain"
	"github.com/iho/gomoney/internal/usecase"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidContextBuilder):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPrecision):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIncompatibleRounding):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDivideByZero):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingEvaluationContext):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMissingExchangeRate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrImpossibleDistribution):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// requestLocale picks the locale from the "locale" query parameter, then
// the Accept-Language header, then fallback.
func requestLocale(r *http.Request, fallback language.Tag) language.Tag {
	if q := r.URL.Query().Get("locale"); q != "" {
		if tag, err := language.Parse(q); err == nil {
			return tag
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			return tags[0]
		}
	}

	return fallback
}
