package storage

import "log/slog"

type options struct {
	logger  *slog.Logger
	metrics MetricsCollector
}

// Option configures a ResourceStorage.
type Option func(*options)

// WithLogger sets the logger used for resource lifecycle events.
//
// If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector for read and write metrics.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func defaultOptions() options {
	return options{
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsCollector{},
	}
}
