package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured logger writing JSON to stderr, so stdout stays
// free for conversation output.
func New(level string) *slog.Logger {
	return NewTo(os.Stderr, level)
}

// NewTo returns a structured JSON logger writing to w.
func NewTo(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
