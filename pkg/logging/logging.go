// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                                // INFO level, from SKYDRAGON_LOG_LEVEL
//	logging.SetupWithLevel(slog.LevelDebug)        // explicit level override
//	logging.SetupWithWriter(f, slog.LevelInfo)     // log to a file while the TUI owns the terminal
//
// Environment variables:
//
//	SKYDRAGON_LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by the
// SKYDRAGON_LOG_LEVEL env var (default: INFO).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("SKYDRAGON_LOG_LEVEL")))
}

// SetupWithLevel configures colored logging to stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// SetupWithWriter configures logging to w. Colors are disabled unless w is
// a terminal.
func SetupWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    !isTerminal(w),
		}),
	)
}

// ParseLevel maps a level name to a slog level. Unknown names give INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
