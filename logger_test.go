package flatdata

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/flatdata/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLoggerOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		created bool
		err     error
		want    string
	}{
		{"opened", false, nil, "level=INFO msg=\"archive open\" archive=a"},
		{"created", true, nil, "level=INFO msg=\"archive create\" archive=a"},
		{"missing", false, &ResourceError{Resource: "a.archive", Op: "read", Err: ErrNotFound}, "level=DEBUG"},
		{"corrupt", false, errors.New("boom"), "level=ERROR msg=\"archive open failed\" archive=a error=boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := bufferLogger(slog.LevelDebug)
			l.LogOpen(ctx, "a", tt.created, tt.err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLoggerFlushAndClose(t *testing.T) {
	ctx := context.Background()
	l, buf := bufferLogger(slog.LevelDebug)

	l.LogFlush(ctx, "xs", 16, 32, nil)
	assert.Contains(t, buf.String(), "msg=flushed resource=xs bytes=16 total=32")

	buf.Reset()
	l.LogClose(ctx, "xs", 3, errDiskFull)
	assert.Contains(t, buf.String(), "level=ERROR msg=\"close failed\" resource=xs records=3")

	buf.Reset()
	l.WithResource("ys").Info("hello")
	assert.Contains(t, buf.String(), "resource=ys")
}

func TestOptions(t *testing.T) {
	o := applyOptions(nil)
	assert.Equal(t, DefaultFlushThreshold, o.flushThreshold)
	assert.Nil(t, o.logger)
	assert.Nil(t, o.metrics)

	l := NoopLogger()
	mc := &BasicMetricsCollector{}
	o = applyOptions([]Option{WithFlushThreshold(10), WithLogger(l), WithMetricsCollector(mc)})
	assert.Equal(t, 10, o.flushThreshold)
	assert.Same(t, l, o.logger)
	assert.Same(t, mc, o.metrics)

	o = applyOptions([]Option{WithFlushThreshold(-1), WithLogger(nil), WithMetricsCollector(nil)})
	assert.Equal(t, DefaultFlushThreshold, o.flushThreshold)
	assert.NotNil(t, o.logger)
	assert.Equal(t, NoopMetricsCollector{}, o.metrics)
}

func TestContainersLogThroughStorage(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	sl := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	st := storage.New(storage.NewMemoryBackend(), storage.WithLogger(sl))

	ev, err := StartVector(ctx, st, "xs", "schema", DynamicLayout(sType), WithFlushThreshold(2))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		ev.Grow()
	}
	_, err = ev.Close(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=flushed resource=xs")
	assert.Contains(t, buf.String(), "msg=closed resource=xs records=4")

	// An explicit logger takes precedence.
	buf.Reset()
	l, own := bufferLogger(slog.LevelDebug)
	ev, err = StartVector(ctx, st, "ys", "schema", DynamicLayout(sType), WithLogger(l))
	require.NoError(t, err)
	_, err = ev.Close(ctx)
	require.NoError(t, err)
	assert.Contains(t, own.String(), "msg=closed resource=ys")
	assert.NotContains(t, buf.String(), "msg=closed")
}
