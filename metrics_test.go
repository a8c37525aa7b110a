package flatdata

import (
	"context"
	"testing"

	"github.com/hupe1980/flatdata/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	ctx := context.Background()

	t.Run("ThroughStorage", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		st := storage.New(storage.NewMemoryBackend(), storage.WithMetricsCollector(mc))

		ev, err := StartVector(ctx, st, "xs", "schema", DynamicLayout(sType), WithFlushThreshold(2))
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			ev.Grow()
		}
		_, err = ev.Close(ctx)
		require.NoError(t, err)

		stats := mc.GetStats()
		// One flush from Grow and one from Close.
		assert.Equal(t, int64(2), stats.FlushCount)
		assert.Equal(t, int64(8), stats.FlushBytes)
		assert.Equal(t, int64(0), stats.FlushErrors)
		assert.Equal(t, int64(1), stats.CloseCount)
		assert.Equal(t, int64(4), stats.CloseRecords)
		// Only the content goes through a resource handle.
		assert.Equal(t, int64(1), stats.WriteCount)
		assert.Equal(t, int64(8), stats.WriteBytes)
		assert.Equal(t, int64(1), stats.ReadCount)
		assert.Equal(t, int64(8), stats.ReadBytes)
	})

	t.Run("ExplicitOption", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		st := storage.New(failingBackend{Backend: storage.NewMemoryBackend(), limit: 8 + 4})

		ev, err := StartVector(ctx, st, "xs", "schema", DynamicLayout(sType), WithFlushThreshold(2), WithMetricsCollector(mc))
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			ev.Grow()
		}
		_, err = ev.Close(ctx)
		require.ErrorIs(t, err, errDiskFull)

		stats := mc.GetStats()
		// Flushes stop at the first failure.
		assert.Equal(t, int64(2), stats.FlushCount)
		assert.Equal(t, int64(1), stats.FlushErrors)
		assert.Equal(t, int64(4), stats.FlushBytes)
		assert.Equal(t, int64(1), stats.CloseErrors)
		assert.Equal(t, int64(10), stats.CloseRecords)
		// Storage events go to the storage's own collector.
		assert.Equal(t, int64(0), stats.WriteCount)
	})

	t.Run("MultiVector", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		st := storage.New(storage.NewMemoryBackend(), storage.WithMetricsCollector(mc))
		variants := multiVariants()

		mv, err := StartMultiVector(ctx, st, "multi", multiSchema, 32, variants)
		require.NoError(t, err)
		AddItem(mv.Grow(), variants[0], DynamicLayout(sType)).Set("x", 1)
		mv.Grow()
		_, err = mv.Close(ctx)
		require.NoError(t, err)

		stats := mc.GetStats()
		// Index vector and multivector.
		assert.Equal(t, int64(2), stats.CloseCount)
		assert.Equal(t, int64(0), stats.CloseErrors)
		assert.Equal(t, int64(3+2), stats.CloseRecords)
	})

	t.Run("AverageOfNothing", func(t *testing.T) {
		var mc BasicMetricsCollector
		assert.Equal(t, BasicMetricsStats{}, mc.GetStats())
	})
}
