package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// ResourceHandle streams the content of one resource and finalises its
// framing on Close.
//
// A handle must be closed exactly once. Closing twice or writing after
// Close panics. A handle that becomes unreachable without being closed
// leaves the resource truncated; this is logged at error level.
type ResourceHandle struct {
	name    string
	schema  string
	out     OutputStream
	written int64
	state   *handleState
	storage *ResourceStorage
	logger  *slog.Logger
	started time.Time
}

type handleState struct {
	name   string
	closed atomic.Bool
	logger *slog.Logger
}

// placeholderSize fills the size prefix until Close patches it. It never
// matches a physical length, so an aborted or interrupted resource fails
// to read with ErrUnexpectedDataSize.
const placeholderSize = ^uint64(0)

// aborter is implemented by streams that can discard their content, such
// as object-store spools that would otherwise upload on Close.
type aborter interface {
	Abort() error
}

func newResourceHandle(st *ResourceStorage, name, schema string, out OutputStream) (*ResourceHandle, error) {
	var prefix [SizePrefixSize]byte
	binary.LittleEndian.PutUint64(prefix[:], placeholderSize)
	if _, err := out.Write(prefix[:]); err != nil {
		_ = out.Close()
		return nil, wrap("write", name, err)
	}

	h := &ResourceHandle{
		name:    name,
		schema:  schema,
		out:     out,
		storage: st,
		logger:  st.logger,
		started: time.Now(),
		state:   &handleState{name: name, logger: st.logger},
	}
	runtime.AddCleanup(h, func(s *handleState) {
		if !s.closed.Load() {
			s.logger.Error("resource handle dropped without Close", "resource", s.name)
		}
	}, h.state)
	return h, nil
}

// Name returns the resource name.
func (h *ResourceHandle) Name() string { return h.name }

// Schema returns the schema the resource was created with.
func (h *ResourceHandle) Schema() string { return h.schema }

// Written returns the number of content bytes written so far.
func (h *ResourceHandle) Written() int64 { return h.written }

// Logger returns the logger of the storage the handle writes to.
func (h *ResourceHandle) Logger() *slog.Logger { return h.logger }

// Metrics returns the metrics collector of the storage the handle writes to.
func (h *ResourceHandle) Metrics() MetricsCollector { return h.storage.metrics }

// Closed reports whether Close or Abort has been called.
func (h *ResourceHandle) Closed() bool { return h.state.closed.Load() }

// Write appends content bytes.
func (h *ResourceHandle) Write(p []byte) (int, error) {
	if h.state.closed.Load() {
		panic(fmt.Sprintf("flatdata: write to closed resource handle %q", h.name))
	}
	n, err := h.out.Write(p)
	h.written += int64(n)
	return n, wrap("write", h.name, err)
}

// Close appends the padding, patches the size prefix and closes the stream.
func (h *ResourceHandle) Close() error {
	if h.state.closed.Swap(true) {
		panic(fmt.Sprintf("flatdata: resource handle %q closed twice", h.name))
	}

	err := h.finalize()
	if cerr := h.out.Close(); err == nil {
		err = cerr
	}
	h.storage.metrics.RecordWrite(h.name, h.written, time.Since(h.started), err)
	if err != nil {
		h.logger.Error("resource finalisation failed", "resource", h.name, "error", err)
		return wrap("close", h.name, err)
	}
	h.logger.Debug("resource finalised", "resource", h.name, "size", h.written)
	return nil
}

// Abort closes the stream without finalising the framing. The size prefix
// keeps its placeholder, so reads of the resource fail with
// ErrUnexpectedDataSize instead of returning truncated content. Streams
// that can discard their content do so. Abort panics if the handle is
// already closed.
func (h *ResourceHandle) Abort() error {
	if h.state.closed.Swap(true) {
		panic(fmt.Sprintf("flatdata: resource handle %q closed twice", h.name))
	}

	var err error
	if a, ok := h.out.(aborter); ok {
		err = a.Abort()
	} else {
		err = h.out.Close()
	}
	h.storage.metrics.RecordWrite(h.name, h.written, time.Since(h.started), ErrAborted)
	h.logger.Warn("resource aborted", "resource", h.name, "written", h.written)
	return wrap("abort", h.name, err)
}

func (h *ResourceHandle) finalize() error {
	var padding [PaddingSize]byte
	if _, err := h.out.Write(padding[:]); err != nil {
		return err
	}
	if _, err := h.out.Seek(0, io.SeekStart); err != nil {
		return err
	}
	var prefix [SizePrefixSize]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(h.written))
	n, err := h.out.Write(prefix[:])
	if err != nil {
		return err
	}
	if n != SizePrefixSize {
		return errors.New("short write of size prefix")
	}
	return nil
}

// ReadBack reads the finalised resource through its storage, validating
// framing and schema like any other read. It panics if the handle is
// still open.
func (h *ResourceHandle) ReadBack(ctx context.Context) ([]byte, error) {
	if !h.state.closed.Load() {
		panic(fmt.Sprintf("flatdata: read back of open resource handle %q", h.name))
	}
	return h.storage.Read(ctx, h.name, h.schema)
}
