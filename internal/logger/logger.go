// Package logger configures the slog logger and carries a request-scoped logger through the
// request context.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelNone is above every slog level, so a logger at this level discards all records.
const LevelNone = slog.Level(12)

// ParseLogLevel maps debug, info, warn, error and none to a level. Unknown values give info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "off":
		return LevelNone
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger and installs it as the slog default.
//
// The dev environment gets colourised tint output on stderr, every other environment gets JSON.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	l := NewLogger(os.Stderr, level, environment)
	slog.SetDefault(l)
	return l
}

// NewLogger is InitLogger writing to w without touching the default logger.
func NewLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	if level >= LevelNone {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelNone}))
	}

	if environment == "dev" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
