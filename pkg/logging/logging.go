// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup(cfg.LogLevel) // also installs it as slog's default
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging on stderr at the given level and makes
// it the default logger.
func Setup(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level, false)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w. Set noColor when w is not a
// terminal, e.g. a file or a test buffer.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    noColor,
		}),
	)
}
