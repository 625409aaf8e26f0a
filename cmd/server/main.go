package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	httpAdapter "github.com/iho/gomoney/internal/adapter/http"
	"github.com/iho/gomoney/internal/adapter/http/handler"
	"github.com/iho/gomoney/internal/adapter/http/middleware"
	"github.com/iho/gomoney/internal/adapter/idgen"
	redisRepo "github.com/iho/gomoney/internal/adapter/repository/redis"
	"github.com/iho/gomoney/internal/infrastructure/config"
	"github.com/iho/gomoney/internal/infrastructure/iso4217"
	"github.com/iho/gomoney/internal/infrastructure/locale"
	"github.com/iho/gomoney/internal/infrastructure/logger"
	"github.com/iho/gomoney/internal/infrastructure/metrics"
	"github.com/iho/gomoney/internal/infrastructure/redis"
	"github.com/iho/gomoney/internal/usecase"
)

// limiterIdle is how long a client may stay silent before its limiter is dropped.
const limiterIdle = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logg

	decimal.DivisionPrecision = int(cfg.DecimalDivisionPrecision)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis
	redisClient, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisConnectRetry, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	logg.Info().Msg("connected to redis")

	m := metrics.New()

	router, limiter, err := buildRouter(cfg, redisClient, m, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to build router")
	}

	if err := serve(ctx, cfg, router, limiter, logg); err != nil {
		logg.Fatal().Err(err).Msg("server failed")
	}

	logg.Info().Msg("server stopped")
}

// buildRouter wires repositories, use cases and handlers.
func buildRouter(cfg *config.Config, redisClient *goredis.Client, m *metrics.Metrics, logg zerolog.Logger) (http.Handler, *middleware.RateLimiter, error) {
	defaultLocale, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid DEFAULT_LOCALE %q: %w", cfg.DefaultLocale, err)
	}

	currencies := iso4217.NewProvider()
	if cfg.DefaultTargetCurrency != "" {
		if _, err := currencies.Currency(cfg.DefaultTargetCurrency); err != nil {
			return nil, nil, fmt.Errorf("invalid DEFAULT_TARGET_CURRENCY: %w", err)
		}
	}

	// Initialize repositories
	rateStore := redisRepo.NewRateStore(redisClient, cfg.RedisKeyPrefix, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient, cfg.RedisKeyPrefix, m)
	idGen := idgen.NewULIDGenerator()

	// Initialize use cases
	rateUC := usecase.NewRateUseCase(rateStore, currencies, m, logg)
	currencyUC := usecase.NewCurrencyUseCase(currencies)
	resolver := usecase.NewContextResolver(currencies, rateUC, cfg.DefaultTargetCurrency)
	evaluationUC := usecase.NewEvaluationUseCase(resolver, idGen, m, logg)
	distributionUC := usecase.NewDistributionUseCase(resolver, idGen, m, logg)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EvaluationHandler: handler.NewEvaluationHandler(evaluationUC, distributionUC, currencyUC, locale.NewFormatter(), defaultLocale),
		RateHandler:       handler.NewRateHandler(rateUC),
		CurrencyHandler:   handler.NewCurrencyHandler(currencyUC),
		HealthHandler:     handler.NewHealthHandler(redisClient, currencyUC),
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       limiter,
		Logger:            logg,
	})

	return router, limiter, nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, cfg *config.Config, router http.Handler, limiter *middleware.RateLimiter, logg zerolog.Logger) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	if limiter != nil {
		go cleanupLimiters(ctx, limiter, logg)
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, logg zerolog.Logger) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.CleanupLimiters(limiterIdle); removed > 0 {
				logg.Debug().Int("removed", removed).Msg("idle rate limiters dropped")
			}
		}
	}
}
