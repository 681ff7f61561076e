// Package logging provides structured logging configuration using log/slog.
//
// Every cleaning run gets a run ID stored in its context; loggers obtained
// through FromContext carry it as run_id so all entries of one run can be
// correlated, even when several runs share a log sink.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/contactclean/internal/core"
)

// Setup configures the global slog logger based on level and format and
// returns it. Logs go to w (the CLI passes stderr so stdout stays clean).
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string, w io.Writer) *slog.Logger {
	logger := New(level, format, w)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger without touching the global default.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns the default logger enriched with the run ID from ctx.
//
// Usage:
//
//	ctx = core.ContextWithRunID(ctx, uuid.NewString())
//	logging.FromContext(ctx).Info("cleaning started", "input", in)
func FromContext(ctx context.Context) *slog.Logger {
	return WithRunID(ctx, slog.Default())
}

// WithRunID adds the run ID from ctx to logger, if one is set.
func WithRunID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := core.GetRunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	runLogger := logging.WithFields(ctx, "input", in, "output", out)
//	runLogger.Info("cleaning started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
