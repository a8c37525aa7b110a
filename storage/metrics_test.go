package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordRead(resource string, bytes int, duration time.Duration, err error) {
	m.Called(resource, bytes, err)
}

func (m *mockMetrics) RecordWrite(resource string, bytes int64, duration time.Duration, err error) {
	m.Called(resource, bytes, err)
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := &mockMetrics{}
	st := New(NewMemoryBackend(), WithMetricsCollector(m))

	m.On("RecordWrite", "data", int64(5), nil).Once()
	m.On("RecordRead", "data", 5, nil).Once()
	m.On("RecordRead", "missing", 0, mock.Anything).Once()
	m.On("RecordWrite", "aborted", int64(0), ErrAborted).Once()

	require.NoError(t, st.Write(ctx, "data", testSchema, []byte("hello")))
	_, err := st.Subdir("").Read(ctx, "data", testSchema)
	require.NoError(t, err)
	_, err = st.Read(ctx, "missing", testSchema)
	require.ErrorIs(t, err, ErrNotFound)

	h, err := st.CreateResource(ctx, "aborted", testSchema)
	require.NoError(t, err)
	require.NoError(t, h.Abort())

	m.AssertExpectations(t)
	assert.Same(t, m, st.Metrics())
}

func TestMetricsDefault(t *testing.T) {
	assert.Equal(t, NoopMetricsCollector{}, New(NewMemoryBackend()).Metrics())
	assert.Equal(t, NoopMetricsCollector{}, New(NewMemoryBackend(), WithMetricsCollector(nil)).Metrics())
}
