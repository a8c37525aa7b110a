package storage

import "time"

// MetricsCollector receives resource-level I/O metrics. Implement it to
// integrate with a monitoring system.
type MetricsCollector interface {
	// RecordRead is called after each Read with the content size and the
	// validation outcome.
	RecordRead(resource string, bytes int, duration time.Duration, err error)

	// RecordWrite is called when a resource handle is closed or aborted.
	// duration spans creation to close; aborted handles report ErrAborted.
	RecordWrite(resource string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(string, int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordWrite(string, int64, time.Duration, error) {}
