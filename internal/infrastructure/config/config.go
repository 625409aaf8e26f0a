package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Redis
	RedisURL          string        `env:"REDIS_URL"           envDefault:"redis://localhost:6379"`
	RedisKeyPrefix    string        `env:"REDIS_KEY_PREFIX"    envDefault:"gomoney:"`
	RedisConnectRetry time.Duration `env:"REDIS_CONNECT_RETRY" envDefault:"30s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting (requests per second per client IP, 0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Money
	DefaultLocale            string `env:"DEFAULT_LOCALE"           envDefault:"en-US"`
	DefaultTargetCurrency    string `env:"DEFAULT_TARGET_CURRENCY"  envDefault:"USD"`
	DecimalDivisionPrecision int32  `env:"DECIMAL_DIVISION_PRECISION" envDefault:"16"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
