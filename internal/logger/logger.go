package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/acesshop/internal/config"
)

// LevelCritical marks events that need a human, such as a payment amount mismatch.
const LevelCritical = slog.LevelError + 4

// New creates a JSON slog.Logger writing to w at the given level name.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceLevel,
	})
	return slog.New(handler)
}

// FromConfig builds the process logger on stdout.
func FromConfig(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg.LogLevel)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		return slog.String(slog.LevelKey, "CRITICAL")
	}
	return a
}
