// Package logger builds the zerolog logger used across the service and
// adapts it for pgx query tracing.
package logger

import (
	"io"
	"os"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
)

// New returns a logger writing to stdout and installs it as the zerolog
// global logger, so packages using github.com/rs/zerolog/log share it.
func New(cfg config.LoggingConfig, env string) zerolog.Logger {
	return newWithWriter(cfg, env, os.Stdout)
}

func newWithWriter(cfg config.LoggingConfig, env string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "expense-tracker").
		Str("env", env).
		Logger()

	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

// PgxTraceLevel maps a zerolog level onto the pgx tracelog level.
func PgxTraceLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.Disabled:
		return tracelog.LogLevelNone
	default:
		return tracelog.LogLevelError
	}
}

// NewPgxTracer logs every statement pgx executes, tagged with component=pgx.
func NewPgxTracer(logger zerolog.Logger) *tracelog.TraceLog {
	pgxLogger := logger.With().Str("component", "pgx").Logger()
	return &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(pgxLogger),
		LogLevel: PgxTraceLevel(logger.GetLevel()),
	}
}
