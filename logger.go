package flatdata

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/flatdata/storage"
)

// Logger wraps slog.Logger with flatdata-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithResource adds a resource field to the logger.
func (l *Logger) WithResource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("resource", name),
	}
}

// LogFlush logs a flush of buffered records or bytes to a resource.
func (l *Logger) LogFlush(ctx context.Context, resource string, bytes, total int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"resource", resource,
			"bytes", bytes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "flushed",
		"resource", resource,
		"bytes", bytes,
		"total", total,
	)
}

// LogClose logs the finalisation of a streaming container.
func (l *Logger) LogClose(ctx context.Context, resource string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"resource", resource,
			"records", records,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "closed",
		"resource", resource,
		"records", records,
	)
}

// LogOpen logs opening or creating an archive. A missing archive is only
// logged at debug level.
func (l *Logger) LogOpen(ctx context.Context, archive string, created bool, err error) {
	op := "open"
	if created {
		op = "create"
	}
	if err != nil {
		level := slog.LevelError
		if isAbsent(err) {
			level = slog.LevelDebug
		}
		l.Log(ctx, level, "archive "+op+" failed",
			"archive", archive,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "archive "+op,
		"archive", archive,
	)
}

// containerLogger returns the logger for a container writing to handle:
// the explicit option, else the storage's logger.
func containerLogger(opts options, handle *storage.ResourceHandle) *Logger {
	if opts.logger != nil {
		return opts.logger
	}
	return &Logger{Logger: handle.Logger()}
}
