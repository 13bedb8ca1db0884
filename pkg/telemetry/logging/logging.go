// Package logging configures structured logging. Every event is a single
// JSON record on stdout with at least "level" and "msg", plus whatever
// context the call site attaches; there is no secondary plain-text stream
// for the log pipeline to mis-parse.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config holds logger settings.
type Config struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// Writer is the output destination (defaults to os.Stdout).
	Writer io.Writer

	// AddSource includes file:line in records. Enabled automatically at
	// debug level.
	AddSource bool
}

// New creates a JSON slog.Logger from the configuration.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	level := ParseLevel(cfg.Level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource || level == slog.LevelDebug,
	})
	return slog.New(handler)
}

// ParseLevel converts a level name to a slog.Level. Unknown names fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromFlags resolves the effective level from the CLI flags and the
// configured default. --debug wins over --verbose wins over config.
func LevelFromFlags(debug, verbose bool, configured string) string {
	switch {
	case debug:
		return "debug"
	case verbose:
		return "info"
	default:
		return configured
	}
}
