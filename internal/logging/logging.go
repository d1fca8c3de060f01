// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures New.
type Options struct {
	// Writer defaults to os.Stderr so command output stays clean.
	Writer io.Writer
	Level  slog.Leveler
	// JSON selects the JSON handler instead of the colored text handler.
	JSON    bool
	NoColor bool
}

// New creates a logger writing to opts.Writer.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: opts.Level})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.TimeOnly,
			NoColor:    opts.NoColor,
		})
	}

	return slog.New(handler)
}
