package flatdata

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/flatdata/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStorage() *storage.ResourceStorage {
	return storage.New(storage.NewMemoryBackend())
}

func TestExternalVectorFlushTransparent(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStorage()
	u64 := NewStructType("U", "struct U { v : u64 : 64; }", Field{Name: "v", Width: 64})
	l := DynamicLayout(u64)

	// 64 bytes buffer forces many flushes.
	ev, err := StartVector(ctx, st, "values", "values-schema", l, WithFlushThreshold(64))
	require.NoError(t, err)

	const n = 1000
	for i := 0; i < n; i++ {
		ev.Grow().Set("v", int64(i)*0x0101010101)
	}
	assert.Equal(t, n, ev.Len())

	view, err := ev.Close(ctx)
	require.NoError(t, err)
	require.Equal(t, n, view.Len())
	for i, r := range view.All() {
		require.Equal(t, int64(i)*0x0101010101, r.Get("v"), "record %d", i)
	}

	// The same bytes are readable as a plain resource.
	reread, err := ReadArray(ctx, st, "values", "values-schema", l)
	require.NoError(t, err)
	assert.Equal(t, view.Bytes(), reread.Bytes())
}

func TestExternalVectorFlushesAboveThreshold(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStorage()
	h, err := st.CreateResource(ctx, "xs", "schema")
	require.NoError(t, err)

	ev := NewExternalVector(h, DynamicLayout(sType), WithFlushThreshold(4))
	ev.Grow().Set("x", 1)
	ev.Grow().Set("x", 2)
	ev.Grow().Set("x", 3)
	assert.Equal(t, int64(0), h.Written())

	// The tail holds 6 bytes now, more than the threshold.
	ev.Grow().Set("x", 4)
	assert.Equal(t, int64(6), h.Written())

	view, err := ev.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, xs(t, view))
}

func TestExternalVectorEmpty(t *testing.T) {
	ctx := context.Background()
	ev, err := StartVector(ctx, newMemoryStorage(), "xs", "schema", DynamicLayout(sType))
	require.NoError(t, err)
	view, err := ev.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Len())
}

func TestExternalVectorUseAfterClose(t *testing.T) {
	ctx := context.Background()
	ev, err := StartVector(ctx, newMemoryStorage(), "xs", "schema", DynamicLayout(sType))
	require.NoError(t, err)
	_, err = ev.Close(ctx)
	require.NoError(t, err)

	assert.Panics(t, func() { ev.Grow() })
	assert.Panics(t, func() { _, _ = ev.Close(ctx) })
}

// failingBackend accepts the schema but fails content writes after limit bytes.
type failingBackend struct {
	storage.Backend
	limit int
}

type failingStream struct {
	storage.OutputStream
	left int
}

var errDiskFull = errors.New("disk full")

func (s *failingStream) Write(p []byte) (int, error) {
	if len(p) > s.left {
		return 0, errDiskFull
	}
	s.left -= len(p)
	return s.OutputStream.Write(p)
}

func (b failingBackend) CreateOutputStream(ctx context.Context, name string) (storage.OutputStream, error) {
	out, err := b.Backend.CreateOutputStream(ctx, name)
	if err != nil || name == "xs.schema" {
		return out, err
	}
	return &failingStream{OutputStream: out, left: b.limit}, nil
}

func TestExternalVectorFlushErrorIsReported(t *testing.T) {
	ctx := context.Background()
	st := storage.New(failingBackend{Backend: storage.NewMemoryBackend(), limit: 8 + 4})

	ev, err := StartVector(ctx, st, "xs", "schema", DynamicLayout(sType), WithFlushThreshold(2))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		ev.Grow()
	}
	assert.Equal(t, 10, ev.Len())

	_, err = ev.Close(ctx)
	assert.ErrorIs(t, err, errDiskFull)

	// The partial resource is aborted, not saved as a shorter vector.
	_, err = ReadArray(ctx, st, "xs", "schema", DynamicLayout(sType))
	assert.ErrorIs(t, err, storage.ErrUnexpectedDataSize)
}

func TestExternalVectorDefaultThreshold(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStorage()
	u64 := NewStructType("U", "struct U { v : u64 : 64; }", Field{Name: "v", Width: 64})
	l := DynamicLayout(u64)

	ev, err := StartVector(ctx, st, "values", "values-schema", l)
	require.NoError(t, err)

	// Enough records to pass the default threshold once.
	n := DefaultFlushThreshold/l.SizeInBytes() + 1000
	for i := 0; i < n; i++ {
		ev.Grow().Set("v", int64(i))
	}
	require.Equal(t, n, ev.Len())
	assert.Positive(t, ev.handle.Written())
	assert.Less(t, ev.handle.Written(), int64(n*l.SizeInBytes()))

	view, err := ev.Close(ctx)
	require.NoError(t, err)
	require.Equal(t, n, view.Len())
	for _, i := range []int{0, 1, n / 2, DefaultFlushThreshold / 8, n - 1} {
		assert.Equal(t, int64(i), view.At(i).Get("v"), "record %d", i)
	}
}
