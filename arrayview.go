package flatdata

import (
	"fmt"
	"iter"
)

// ArrayView is a read-only fixed-stride sequence of records over a byte
// slice. It never copies: element views alias the backing bytes.
type ArrayView[R any] struct {
	data    []byte
	size    int
	overlap bool
	ref     func([]byte) R
}

// NewArrayView creates a view of the records in data.
func NewArrayView[R, W any](layout *Layout[R, W], data []byte) ArrayView[R] {
	return ArrayView[R]{
		data:    data,
		size:    layout.SizeInBytes(),
		overlap: layout.OverlapsWithNext(),
		ref:     layout.ref,
	}
}

// Len returns the number of records. For overlapping structs the trailing
// sentinel is not counted.
func (v ArrayView[R]) Len() int {
	if v.size == 0 {
		return 0
	}
	n := len(v.data) / v.size
	if v.overlap {
		n--
	}
	return max(n, 0)
}

// IsEmpty reports whether the view has no records.
func (v ArrayView[R]) IsEmpty() bool { return v.Len() == 0 }

// At returns the read view of record i. It panics if i is out of range.
func (v ArrayView[R]) At(i int) R {
	if i < 0 || i >= v.Len() {
		panic(fmt.Sprintf("flatdata: index %d out of range [0, %d)", i, v.Len()))
	}
	return v.ref(window(v.data, i, v.size, v.overlap))
}

// Slice returns the records [start, end). The sub-view keeps the sentinel
// of overlapping structs so its last element still has a range end.
func (v ArrayView[R]) Slice(start, end int) ArrayView[R] {
	if start < 0 || end < start || end > v.Len() {
		panic(fmt.Sprintf("flatdata: slice [%d:%d] out of range [0, %d]", start, end, v.Len()))
	}
	stop := end
	if v.overlap {
		stop++
	}
	out := v
	out.data = v.data[start*v.size : min(stop*v.size, len(v.data))]
	return out
}

// SliceInclusive returns the records [start, last].
func (v ArrayView[R]) SliceInclusive(start, last int) ArrayView[R] {
	return v.Slice(start, last+1)
}

// Bytes returns the raw bytes of the view, sentinel included.
func (v ArrayView[R]) Bytes() []byte { return v.data }

// Iter returns a fresh double-ended iterator over the records.
func (v ArrayView[R]) Iter() *Iterator[R] {
	return &Iterator[R]{view: v, back: v.Len()}
}

// All yields the records in order with their index.
func (v ArrayView[R]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i, n := 0, v.Len(); i < n; i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Backward yields the records in reverse order with their index.
func (v ArrayView[R]) Backward() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i := v.Len() - 1; i >= 0; i-- {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Iterator walks an ArrayView from both ends. Once exhausted it keeps
// returning false.
type Iterator[R any] struct {
	view  ArrayView[R]
	front int
	back  int
}

// Next returns the next record from the front.
func (it *Iterator[R]) Next() (R, bool) {
	if it.front >= it.back {
		var zero R
		return zero, false
	}
	r := it.view.At(it.front)
	it.front++
	return r, true
}

// NextBack returns the next record from the back.
func (it *Iterator[R]) NextBack() (R, bool) {
	if it.front >= it.back {
		var zero R
		return zero, false
	}
	it.back--
	return it.view.At(it.back), true
}

// Len returns the number of records not yet returned.
func (it *Iterator[R]) Len() int { return it.back - it.front }
