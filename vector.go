package flatdata

import (
	"fmt"
	"slices"
)

// Vector is an in-memory growable sequence of records, serialised in one
// shot.
//
// The buffer always holds one zeroed record beyond the grown ones, so the
// write view of the last record of an overlapping struct stays in bounds.
// For overlapping structs the caller grows the sentinel like any other
// record; View hides it.
type Vector[R, W any] struct {
	layout *Layout[R, W]
	buf    []byte
	n      int
}

// NewVector creates an empty vector.
func NewVector[R, W any](layout *Layout[R, W]) *Vector[R, W] {
	return NewVectorWithLen(layout, 0)
}

// NewVectorWithLen creates a vector of n zeroed records.
func NewVectorWithLen[R, W any](layout *Layout[R, W], n int) *Vector[R, W] {
	if n < 0 {
		panic(fmt.Sprintf("flatdata: negative vector length %d", n))
	}
	return &Vector[R, W]{
		layout: layout,
		buf:    make([]byte, (n+1)*layout.SizeInBytes()),
		n:      n,
	}
}

// Layout returns the record layout.
func (v *Vector[R, W]) Layout() *Layout[R, W] { return v.layout }

// Len returns the number of grown records.
func (v *Vector[R, W]) Len() int { return v.n }

// Grow appends a zeroed record and returns its write view.
func (v *Vector[R, W]) Grow() W {
	size := v.layout.SizeInBytes()
	v.buf = slices.Grow(v.buf, size)
	v.buf = v.buf[:len(v.buf)+size]
	clear(v.buf[len(v.buf)-size:])
	v.n++
	return v.layout.Mut(v.layout.window(v.buf, v.n-1))
}

// At returns the write view of record i. It panics if i is out of range.
func (v *Vector[R, W]) At(i int) W {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("flatdata: index %d out of range [0, %d)", i, v.n))
	}
	return v.layout.Mut(v.layout.window(v.buf, i))
}

// View returns a read-only view of the grown records.
func (v *Vector[R, W]) View() ArrayView[R] {
	return NewArrayView(v.layout, v.Bytes())
}

// Bytes returns the serialisable content: the grown records without the
// reserved one.
func (v *Vector[R, W]) Bytes() []byte {
	return v.buf[:v.n*v.layout.SizeInBytes()]
}

// SizeInBytes returns the serialised size.
func (v *Vector[R, W]) SizeInBytes() int { return v.n * v.layout.SizeInBytes() }

// Reset drops every record. Views obtained earlier must not be used.
func (v *Vector[R, W]) Reset() {
	v.buf = v.buf[:v.layout.SizeInBytes()]
	clear(v.buf)
	v.n = 0
}
