package redis

import (
	"time"

	"github.com/iho/gomoney/internal/infrastructure/metrics"
)

// observe records one Redis round trip. m may be nil.
func observe(m *metrics.Metrics, operation string, start time.Time, err error) {
	if m == nil {
		return
	}

	m.RedisOperations.WithLabelValues(operation).Inc()
	m.RedisDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.RedisErrors.WithLabelValues(operation).Inc()
	}
}
