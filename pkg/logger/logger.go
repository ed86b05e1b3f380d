package logger

import (
	"io"
	"log/slog"
	"strings"

	slogctx "github.com/veqryn/slog-context"
)

// New returns a JSON logger that also emits attributes attached with slogctx.With.
func New(level string, w io.Writer) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(slogctx.NewHandler(h, nil))
}

// InitAsDefault installs New as the process wide logger.
func InitAsDefault(level string, w io.Writer) *slog.Logger {
	l := New(level, w)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
