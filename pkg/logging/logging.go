// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)
//
// Levels: debug, info, warn, error (default: info).
// Formats: "json" for machine-readable output, anything else for tint.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Configure installs the default logger with the given level name and
// format ("json" for machine-readable output, anything else for tint).
func Configure(w io.Writer, level, format string) *slog.Logger {
	logger := slog.New(NewHandler(w, ParseLevel(level), format))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the handler behind Configure.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
