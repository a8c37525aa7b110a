package flatdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sView(xs ...int64) ArrayView[Record] {
	l := DynamicLayout(sType)
	v := NewVector(l)
	for _, x := range xs {
		v.Grow().Set("x", x)
	}
	return v.View()
}

func xs(t *testing.T, v ArrayView[Record]) []int64 {
	t.Helper()
	var out []int64
	for _, r := range v.All() {
		out = append(out, r.Get("x"))
	}
	return out
}

func TestArrayViewLen(t *testing.T) {
	for _, k := range []int{0, 1, 2, 7} {
		assert.Equal(t, k, NewArrayView(DynamicLayout(sType), make([]byte, k*sType.SizeInBytes)).Len(), "k=%d", k)

		want := max(k-1, 0)
		assert.Equal(t, want, NewArrayView(DynamicLayout(rangeType), make([]byte, k*rangeType.SizeInBytes)).Len(), "overlap k=%d", k)
	}

	// Trailing partial records are ignored.
	assert.Equal(t, 2, NewArrayView(DynamicLayout(sType), make([]byte, 5)).Len())
	assert.True(t, ArrayView[Record]{}.IsEmpty())
}

func TestArrayViewAt(t *testing.T) {
	v := sView(10, 20, 30)
	assert.Equal(t, int64(20), v.At(1).Get("x"))
	assert.Panics(t, func() { v.At(3) })
	assert.Panics(t, func() { v.At(-1) })
}

func TestArrayViewSlice(t *testing.T) {
	v := sView(1, 2, 3, 4, 5)

	assert.Equal(t, []int64{2, 3}, xs(t, v.Slice(1, 3)))
	assert.Equal(t, []int64{2, 3, 4}, xs(t, v.SliceInclusive(1, 3)))
	assert.Empty(t, xs(t, v.Slice(5, 5)))
	assert.Equal(t, 0, v.Slice(2, 2).Len())

	assert.Panics(t, func() { v.Slice(0, 6) })
	assert.Panics(t, func() { v.Slice(3, 2) })
	assert.Panics(t, func() { v.SliceInclusive(0, 5) })
}

func TestArrayViewSliceOverlap(t *testing.T) {
	l := DynamicLayout(rangeType)
	vec := NewVector(l)
	for _, first := range []int64{0, 3, 3, 8, 10} { // last is the sentinel
		vec.Grow().Set("first", first)
	}
	view := vec.View()
	require.Equal(t, 4, view.Len())

	sub := view.Slice(1, 3)
	require.Equal(t, 2, sub.Len())
	start, end := sub.At(1).Range("span")
	assert.Equal(t, int64(3), start)
	assert.Equal(t, int64(8), end)

	// The sentinel of the full view stays reachable from the last slice.
	last := view.SliceInclusive(3, 3)
	start, end = last.At(0).Range("span")
	assert.Equal(t, int64(8), start)
	assert.Equal(t, int64(10), end)
	assert.Len(t, last.Bytes(), 2*rangeType.SizeInBytes)
}

func TestArrayViewIter(t *testing.T) {
	v := sView(1, 2, 3, 4)

	it := v.Iter()
	assert.Equal(t, 4, it.Len())

	r, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, int64(1), r.Get("x"))

	r, ok = it.NextBack()
	require.True(t, ok)
	assert.Equal(t, int64(4), r.Get("x"))
	assert.Equal(t, 2, it.Len())

	r, _ = it.NextBack()
	assert.Equal(t, int64(3), r.Get("x"))
	r, _ = it.Next()
	assert.Equal(t, int64(2), r.Get("x"))

	// Fused.
	for i := 0; i < 3; i++ {
		_, ok = it.Next()
		assert.False(t, ok)
		_, ok = it.NextBack()
		assert.False(t, ok)
	}
	assert.Equal(t, 0, it.Len())

	// Restartable.
	it = v.Iter()
	assert.Equal(t, 4, it.Len())
}

func TestArrayViewSeq(t *testing.T) {
	v := sView(1, 2, 3)

	var back []int64
	var idx []int
	for i, r := range v.Backward() {
		idx = append(idx, i)
		back = append(back, r.Get("x"))
	}
	assert.Equal(t, []int64{3, 2, 1}, back)
	assert.Equal(t, []int{2, 1, 0}, idx)

	var first []int64
	for _, r := range v.All() {
		first = append(first, r.Get("x"))
		break
	}
	assert.Equal(t, []int64{1}, first)
}
