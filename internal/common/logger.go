package common

import (
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide default logger. Format is "console"
// (text) or "json"; handlers write to stderr so command output stays clean.
func SetupLogger(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
