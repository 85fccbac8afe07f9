// Package logging configures the application's structured logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config level name to a slog level.
// Unknown names map to info and ok is false.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Options controls Setup.
type Options struct {
	// Level is the configured level name (debug, info, warn, error).
	Level string
	// Debug forces debug level.
	Debug bool
	// Quiet raises the level to error unless Debug is set.
	Quiet bool
}

// Setup builds a JSON logger writing to w and installs it as the slog default.
func Setup(w io.Writer, opts Options) *slog.Logger {
	level, ok := ParseLevel(opts.Level)
	switch {
	case opts.Debug:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", opts.Level,
			"default_level", "info")
	}
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
