package flatdata

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hupe1980/flatdata/storage"
)

// ExternalVector is a growable sequence of records that streams to a
// resource. Only the most recently grown record is accessible; earlier
// records may already have been flushed.
//
// An ExternalVector must be closed exactly once. Growing or closing after
// Close panics.
type ExternalVector[R, W any] struct {
	layout    *Layout[R, W]
	handle    *storage.ResourceHandle
	tail      *Vector[R, W]
	flushed   int
	threshold int
	logger    *Logger
	metrics   MetricsCollector
	started   time.Time
	err       error
	closed    *atomic.Bool
}

// NewExternalVector creates a vector streaming into handle.
func NewExternalVector[R, W any](handle *storage.ResourceHandle, layout *Layout[R, W], optFns ...Option) *ExternalVector[R, W] {
	opts := applyOptions(optFns)
	v := &ExternalVector[R, W]{
		layout:    layout,
		handle:    handle,
		tail:      NewVector(layout),
		threshold: opts.flushThreshold,
		logger:    containerLogger(opts, handle),
		metrics:   containerMetrics(opts, handle),
		started:   time.Now(),
		closed:    new(atomic.Bool),
	}
	name, logger := handle.Name(), v.logger
	runtime.AddCleanup(v, func(closed *atomic.Bool) {
		if !closed.Load() {
			logger.Error("external vector dropped without Close", "resource", name)
		}
	}, v.closed)
	return v
}

// Len returns the number of records grown so far.
func (v *ExternalVector[R, W]) Len() int { return v.flushed + v.tail.Len() }

// Grow appends a zeroed record and returns its write view. The view is
// valid until the next Grow.
//
// Flush failures are remembered and returned by Close.
func (v *ExternalVector[R, W]) Grow() W {
	v.checkOpen()
	if v.tail.SizeInBytes() > v.threshold {
		v.flush(context.Background())
	}
	return v.tail.Grow()
}

func (v *ExternalVector[R, W]) flush(ctx context.Context) {
	n := v.tail.Len()
	if n == 0 {
		return
	}
	if v.err == nil {
		data := v.tail.Bytes()
		start := time.Now()
		_, err := v.handle.Write(data)
		v.err = err
		v.metrics.RecordFlush(v.handle.Name(), len(data), time.Since(start), err)
		v.logger.LogFlush(ctx, v.handle.Name(), int64(len(data)), v.handle.Written(), err)
	}
	v.flushed += n
	v.tail.Reset()
}

// Close flushes the remaining records, finalises the resource and returns
// a view of it read back through the storage. If a flush failed the
// resource is aborted instead, so it cannot be opened later.
func (v *ExternalVector[R, W]) Close(ctx context.Context) (ArrayView[R], error) {
	v.checkOpen()
	v.flush(ctx)
	v.closed.Store(true)

	err := v.err
	if err != nil {
		_ = v.handle.Abort()
	} else {
		err = v.handle.Close()
	}
	var view ArrayView[R]
	if err == nil {
		var data []byte
		if data, err = v.handle.ReadBack(ctx); err == nil {
			view = NewArrayView(v.layout, data)
		}
	}
	v.metrics.RecordClose(v.handle.Name(), v.Len(), time.Since(v.started), err)
	v.logger.LogClose(ctx, v.handle.Name(), v.Len(), err)
	return view, err
}

// abort discards the vector without finalising its resource.
func (v *ExternalVector[R, W]) abort(ctx context.Context, cause error) {
	v.checkOpen()
	v.closed.Store(true)
	_ = v.handle.Abort()
	v.metrics.RecordClose(v.handle.Name(), v.Len(), time.Since(v.started), cause)
	v.logger.LogClose(ctx, v.handle.Name(), v.Len(), cause)
}

func (v *ExternalVector[R, W]) checkOpen() {
	if v.closed.Load() {
		panic(fmt.Sprintf("flatdata: external vector %q used after Close", v.handle.Name()))
	}
}
