package flatdata

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/flatdata/storage"
)

// MetricsCollector defines an interface for collecting operational metrics
// of streaming containers and the resources beneath them. Implement it to
// integrate with monitoring systems like Prometheus.
//
// A collector passed to storage.WithMetricsCollector is also picked up by
// containers created on that storage unless WithMetricsCollector overrides
// it.
type MetricsCollector interface {
	storage.MetricsCollector

	// RecordFlush is called after a container writes buffered bytes to its
	// resource.
	RecordFlush(resource string, bytes int, duration time.Duration, err error)

	// RecordClose is called after a container is closed. records is the
	// number of records or buckets grown.
	RecordClose(resource string, records int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct {
	storage.NoopMetricsCollector
}

func (NoopMetricsCollector) RecordFlush(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClose(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadBytes       atomic.Int64
	ReadTotalNanos  atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteBytes      atomic.Int64
	FlushCount      atomic.Int64
	FlushErrors     atomic.Int64
	FlushBytes      atomic.Int64
	FlushTotalNanos atomic.Int64
	CloseCount      atomic.Int64
	CloseErrors     atomic.Int64
	CloseRecords    atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(resource string, bytes int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadBytes.Add(int64(bytes))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(resource string, bytes int64, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(bytes)
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(resource string, bytes int, duration time.Duration, err error) {
	b.FlushCount.Add(1)
	b.FlushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlushErrors.Add(1)
		return
	}
	b.FlushBytes.Add(int64(bytes))
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(resource string, records int, duration time.Duration, err error) {
	b.CloseCount.Add(1)
	b.CloseRecords.Add(int64(records))
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadBytes:     b.ReadBytes.Load(),
		ReadAvgNanos:  avgNanos(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteBytes:    b.WriteBytes.Load(),
		FlushCount:    b.FlushCount.Load(),
		FlushErrors:   b.FlushErrors.Load(),
		FlushBytes:    b.FlushBytes.Load(),
		FlushAvgNanos: avgNanos(b.FlushTotalNanos.Load(), b.FlushCount.Load()),
		CloseCount:    b.CloseCount.Load(),
		CloseErrors:   b.CloseErrors.Load(),
		CloseRecords:  b.CloseRecords.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReadCount     int64
	ReadErrors    int64
	ReadBytes     int64
	ReadAvgNanos  int64
	WriteCount    int64
	WriteErrors   int64
	WriteBytes    int64
	FlushCount    int64
	FlushErrors   int64
	FlushBytes    int64
	FlushAvgNanos int64
	CloseCount    int64
	CloseErrors   int64
	CloseRecords  int64
}

// containerMetrics returns the collector for a container writing to
// handle: the explicit option, else the storage's collector if it also
// records container events, else a no-op.
func containerMetrics(opts options, handle *storage.ResourceHandle) MetricsCollector {
	if opts.metrics != nil {
		return opts.metrics
	}
	if mc, ok := handle.Metrics().(MetricsCollector); ok {
		return mc
	}
	return NoopMetricsCollector{}
}
