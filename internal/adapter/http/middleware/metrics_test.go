package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		pattern    string
		statusCode int
	}{
		{
			name:       "uses route pattern",
			method:     http.MethodDelete,
			path:       "/api/v1/rates/USD/CHF",
			pattern:    "/api/v1/rates/{source}/{target}",
			statusCode: http.StatusNoContent,
		},
		{
			name:       "static route",
			method:     http.MethodPost,
			path:       "/api/v1/evaluate",
			pattern:    "/api/v1/evaluate",
			statusCode: http.StatusUnprocessableEntity,
		},
		{
			name:       "unmatched route",
			method:     http.MethodGet,
			path:       "/api/v1/unknown/123",
			pattern:    unmatchedPath,
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpResponseSize.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte("body"))
			})

			r := chi.NewRouter()
			r.Use(Metrics)
			r.Delete("/api/v1/rates/{source}/{target}", next)
			r.Post("/api/v1/evaluate", next)
			r.NotFound(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := httpRequestsTotal.WithLabelValues(tc.method, tc.pattern, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}

			if got := testutil.CollectAndCount(httpResponseSize); got != 1 {
				t.Fatalf("expected one response size series, got %d", got)
			}
		})
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := routePattern(req); got != unmatchedPath {
		t.Fatalf("expected %q, got %q", unmatchedPath, got)
	}
}
