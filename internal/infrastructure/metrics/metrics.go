package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Evaluation metrics
	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	EvaluationErrors   *prometheus.CounterVec

	// Distribution metrics
	Distributions     *prometheus.CounterVec
	DistributionParts prometheus.Histogram

	// Exchange rate metrics
	ExchangeRateLookups *prometheus.CounterVec
	ExchangeRateUpdates prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Evaluation metrics
		Evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_evaluations_total",
				Help: "Total number of expression evaluations by outcome",
			},
			[]string{"outcome"},
		),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gomoney_evaluation_duration_seconds",
			Help:    "Duration of expression evaluations",
			Buckets: prometheus.DefBuckets,
		}),
		EvaluationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_evaluation_errors_total",
				Help: "Total number of evaluation errors by type",
			},
			[]string{"error_type"},
		),

		// Distribution metrics
		Distributions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_distributions_total",
				Help: "Total number of distributions by outcome",
			},
			[]string{"outcome"},
		),
		DistributionParts: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gomoney_distribution_parts",
			Help:    "Number of parts per distribution",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 100},
		}),

		// Exchange rate metrics
		ExchangeRateLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_exchange_rate_lookups_total",
				Help: "Total exchange rate lookups by result",
			},
			[]string{"result"},
		),
		ExchangeRateUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "gomoney_exchange_rate_updates_total",
			Help: "Total number of stored exchange rate updates",
		}),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gomoney_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gomoney_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
