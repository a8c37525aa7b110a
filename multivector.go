package flatdata

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hupe1980/flatdata/storage"
)

// MultiVector is the write side of an indexed sequence of buckets. Each
// bucket holds zero or more tagged records of the variants of T.
//
// Data bytes are buffered and flushed to the data resource; the index is
// an ExternalVector whose entries hold each bucket's start offset. Close
// appends a sentinel entry marking the end of the last bucket.
type MultiVector[T any] struct {
	index     *ExternalVector[IndexRef, IndexMut]
	bits      uint
	data      *storage.ResourceHandle
	variants  *variantTable[T]
	buf       []byte
	flushed   uint64
	buckets   int
	threshold int
	logger    *Logger
	metrics   MetricsCollector
	started   time.Time
	err       error
	closed    *atomic.Bool
}

// NewMultiVector creates a multivector writing its index through index and
// its item data into data.
func NewMultiVector[T any](index *ExternalVector[IndexRef, IndexMut], data *storage.ResourceHandle, variants []Variant[T], optFns ...Option) *MultiVector[T] {
	opts := applyOptions(optFns)
	mv := &MultiVector[T]{
		index:     index,
		bits:      index.layout.Type().Fields[0].Width,
		data:      data,
		variants:  newVariantTable(variants),
		threshold: opts.flushThreshold,
		logger:    containerLogger(opts, data),
		metrics:   containerMetrics(opts, data),
		started:   time.Now(),
		closed:    new(atomic.Bool),
	}
	name, logger := data.Name(), mv.logger
	runtime.AddCleanup(mv, func(closed *atomic.Bool) {
		if !closed.Load() {
			logger.Error("multivector dropped without Close", "resource", name)
		}
	}, mv.closed)
	return mv
}

// Len returns the number of buckets grown so far.
func (mv *MultiVector[T]) Len() int { return mv.buckets }

// Grow starts a new bucket. The returned bucket is valid until the next
// Grow.
func (mv *MultiVector[T]) Grow() *Bucket[T] {
	mv.checkOpen()
	if len(mv.buf) > mv.threshold {
		mv.flush(context.Background())
	}
	mv.appendIndex()
	mv.buckets++
	return &Bucket[T]{mv: mv}
}

func (mv *MultiVector[T]) appendIndex() {
	offset := mv.flushed + uint64(len(mv.buf))
	if mv.err == nil && offset > maxIndexValue(mv.bits) {
		mv.err = fmt.Errorf("%w: offset %d in %d-bit index of %q", ErrIndexOverflow, offset, mv.bits, mv.data.Name())
	}
	mv.index.Grow().SetValue(offset)
}

func maxIndexValue(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<bits - 1
}

func (mv *MultiVector[T]) flush(ctx context.Context) {
	if len(mv.buf) == 0 {
		return
	}
	if mv.err == nil {
		start := time.Now()
		_, err := mv.data.Write(mv.buf)
		mv.err = err
		mv.metrics.RecordFlush(mv.data.Name(), len(mv.buf), time.Since(start), err)
		mv.logger.LogFlush(ctx, mv.data.Name(), int64(len(mv.buf)), mv.data.Written(), err)
	}
	mv.flushed += uint64(len(mv.buf))
	mv.buf = mv.buf[:0]
}

// Close appends the sentinel index entry, flushes and finalises both
// resources and returns a view read back through the storage. If a flush
// failed or an offset overflowed the index, both resources are aborted
// instead, so they cannot be opened later.
func (mv *MultiVector[T]) Close(ctx context.Context) (MultiArrayView[T], error) {
	mv.checkOpen()
	mv.appendIndex()
	mv.flush(ctx)
	mv.closed.Store(true)

	if err := mv.err; err != nil {
		_ = mv.data.Abort()
		mv.index.abort(ctx, err)
		mv.closeDone(ctx, err)
		return MultiArrayView[T]{}, err
	}

	err := mv.data.Close()
	if err != nil {
		mv.index.abort(ctx, err)
		mv.closeDone(ctx, err)
		return MultiArrayView[T]{}, err
	}
	index, err := mv.index.Close(ctx)
	var data []byte
	if err == nil {
		data, err = mv.data.ReadBack(ctx)
	}
	mv.closeDone(ctx, err)
	if err != nil {
		return MultiArrayView[T]{}, err
	}
	return newMultiArrayView(index, data, mv.variants), nil
}

func (mv *MultiVector[T]) closeDone(ctx context.Context, err error) {
	mv.metrics.RecordClose(mv.data.Name(), mv.buckets, time.Since(mv.started), err)
	mv.logger.LogClose(ctx, mv.data.Name(), mv.buckets, err)
}

func (mv *MultiVector[T]) checkOpen() {
	if mv.closed.Load() {
		panic(fmt.Sprintf("flatdata: multivector %q used after Close", mv.data.Name()))
	}
}

// Bucket appends items to the bucket most recently started by Grow.
type Bucket[T any] struct {
	mv *MultiVector[T]
}

// Add appends a zeroed item of the variant with the given tag and returns
// its payload bytes. The payload is valid until the next Add or Grow.
// Unknown tags panic.
func (b *Bucket[T]) Add(tag byte) []byte {
	mv := b.mv
	mv.checkOpen()
	v, ok := mv.variants.lookup(tag)
	if !ok {
		panic(fmt.Sprintf("flatdata: multivector %q has no variant with tag %d", mv.data.Name(), tag))
	}

	n := 1 + v.Size
	mv.buf = slices.Grow(mv.buf, n)
	start := len(mv.buf)
	mv.buf = mv.buf[:start+n]
	clear(mv.buf[start:])
	mv.buf[start] = tag
	return mv.buf[start+1 : start+n : start+n]
}

// AddItem appends an item of variant v to b and returns its typed write
// view.
func AddItem[T, R, W any](b *Bucket[T], v Variant[T], layout *Layout[R, W]) W {
	if v.Size != layout.SizeInBytes() {
		panic(fmt.Sprintf("flatdata: variant %s is %d bytes, layout %s is %d", v.Name, v.Size, layout.Type().Name, layout.SizeInBytes()))
	}
	return layout.Mut(b.Add(v.Tag))
}
