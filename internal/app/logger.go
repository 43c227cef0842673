package app

import (
	"io"
	"log/slog"
)

// newLogger builds the application logger without touching the global
// default, so tests can run isolated App instances side by side. Unknown
// levels fall back to info; NewConfig rejects them earlier.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler).With("app", "scriptassoc")
}
