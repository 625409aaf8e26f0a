package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gomoney/internal/domain"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console

	// Output defaults to os.Stdout.
	Output io.Writer
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.Output != nil,
		}
	}

	level := parseLevel(cfg.Level)

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("service", "gomoney").
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Money renders m as a nested object:
// {"amount":"2.50","currency":"CHF","rounding":"BankersRounding { Precision: 0.01 }"}.
func Money(m domain.Money) zerolog.LogObjectMarshaler {
	return moneyObject(m)
}

type moneyObject domain.Money

func (o moneyObject) MarshalZerologObject(e *zerolog.Event) {
	m := domain.Money(o)
	e.Str("amount", m.Amount.String())
	if !m.Currency.IsZero() {
		e.Str("currency", m.Currency.Code)
	}
	e.Stringer("rounding", m.Rounding())
}

// Monies renders a list of amounts, such as the parts of a distribution.
func Monies(parts []domain.Money) zerolog.LogArrayMarshaler {
	return moneyArray(parts)
}

type moneyArray []domain.Money

func (a moneyArray) MarshalZerologArray(arr *zerolog.Array) {
	for _, m := range a {
		arr.Object(moneyObject(m))
	}
}
