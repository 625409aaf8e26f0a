package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gomoney/internal/domain"
)

const readinessTimeout = 5 * time.Second

// CurrencyCatalog is the currency table readiness depends on.
type CurrencyCatalog interface {
	ListCurrencies() ([]domain.CurrencyInfo, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	redisClient *redis.Client
	currencies  CurrencyCatalog
}

// NewHealthHandler creates a new HealthHandler. A nil client means the
// service runs without a rate store.
func NewHealthHandler(redisClient *redis.Client, currencies CurrencyCatalog) *HealthHandler {
	return &HealthHandler{redisClient: redisClient, currencies: currencies}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 once the currency table is loaded and Redis answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"status": "ready", "redis": "disabled"}

	if h.currencies != nil {
		if _, err := h.currencies.ListCurrencies(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "currency table unavailable", err.Error())
			return
		}
		checks["currencies"] = "ok"
	}

	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
			return
		}
		checks["redis"] = "ok"
	}

	writeJSON(w, http.StatusOK, checks)
}
