package flatdata

import (
	"fmt"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// MultiArrayView is the read side of a multivector: an index of buckets
// over a blob of tagged records.
type MultiArrayView[T any] struct {
	index    ArrayView[IndexRef]
	data     []byte
	variants *variantTable[T]
}

// NewMultiArrayView creates a view over an index and its data blob.
func NewMultiArrayView[T any](index ArrayView[IndexRef], data []byte, variants []Variant[T]) MultiArrayView[T] {
	return newMultiArrayView(index, data, newVariantTable(variants))
}

func newMultiArrayView[T any](index ArrayView[IndexRef], data []byte, variants *variantTable[T]) MultiArrayView[T] {
	return MultiArrayView[T]{index: index, data: data, variants: variants}
}

// Len returns the number of buckets.
func (v MultiArrayView[T]) Len() int { return v.index.Len() }

// Index returns the index view.
func (v MultiArrayView[T]) Index() ArrayView[IndexRef] { return v.index }

// Bytes returns the data blob.
func (v MultiArrayView[T]) Bytes() []byte { return v.data }

func (v MultiArrayView[T]) bucket(i int) []byte {
	start, end := v.index.At(i).Range()
	if start > end || end > uint64(len(v.data)) {
		panic(fmt.Sprintf("flatdata: bucket %d range [%d, %d) outside data of %d bytes: data corruption", i, start, end, len(v.data)))
	}
	return v.data[start:end]
}

// At returns an iterator over the items of bucket i. It panics if i is out
// of range.
func (v MultiArrayView[T]) At(i int) *BucketIter[T] {
	return &BucketIter[T]{data: v.bucket(i), variants: v.variants}
}

// Items yields the items of bucket i.
func (v MultiArrayView[T]) Items(i int) iter.Seq[T] {
	return v.At(i).Each()
}

// Slice returns the buckets [start, end).
func (v MultiArrayView[T]) Slice(start, end int) MultiArrayView[T] {
	out := v
	out.index = v.index.Slice(start, end)
	return out
}

// Iter returns a fresh double-ended iterator over the buckets.
func (v MultiArrayView[T]) Iter() *MultiIterator[T] {
	return &MultiIterator[T]{view: v, back: v.Len()}
}

// All yields each bucket index with an iterator over its items.
func (v MultiArrayView[T]) All() iter.Seq2[int, *BucketIter[T]] {
	return func(yield func(int, *BucketIter[T]) bool) {
		for i, n := 0, v.Len(); i < n; i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// NonEmpty returns the indices of buckets holding at least one item.
func (v MultiArrayView[T]) NonEmpty() *roaring.Bitmap {
	bm := roaring.New()
	n := v.Len()
	if uint64(n) > math.MaxUint32+1 {
		panic(fmt.Sprintf("flatdata: %d buckets exceed the bitmap range", n))
	}
	for i := 0; i < n; i++ {
		if start, end := v.index.At(i).Range(); start < end {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// BucketIter walks the items of one bucket. Once exhausted it keeps
// returning false.
type BucketIter[T any] struct {
	data     []byte
	pos      int
	variants *variantTable[T]
}

// Next decodes the next item. An unknown tag or a truncated payload means
// the data does not match the variant set and panics.
func (it *BucketIter[T]) Next() (T, bool) {
	var zero T
	if it.pos >= len(it.data) {
		return zero, false
	}
	tag := it.data[it.pos]
	v, ok := it.variants.lookup(tag)
	if !ok {
		panic(fmt.Sprintf("flatdata: unknown variant tag %d at bucket offset %d: data corruption", tag, it.pos))
	}
	start := it.pos + 1
	end := start + v.Size
	if end > len(it.data) {
		panic(fmt.Sprintf("flatdata: %s item at bucket offset %d truncated: data corruption", v.Name, it.pos))
	}
	it.pos = end
	return v.decode(it.data[start:end:end]), true
}

// Each yields the remaining items.
func (it *BucketIter[T]) Each() iter.Seq[T] {
	return func(yield func(T) bool) {
		for item, ok := it.Next(); ok; item, ok = it.Next() {
			if !yield(item) {
				return
			}
		}
	}
}

// MultiIterator walks the buckets of a MultiArrayView from both ends.
type MultiIterator[T any] struct {
	view  MultiArrayView[T]
	front int
	back  int
}

// Next returns the next bucket from the front.
func (it *MultiIterator[T]) Next() (*BucketIter[T], bool) {
	if it.front >= it.back {
		return nil, false
	}
	b := it.view.At(it.front)
	it.front++
	return b, true
}

// NextBack returns the next bucket from the back.
func (it *MultiIterator[T]) NextBack() (*BucketIter[T], bool) {
	if it.front >= it.back {
		return nil, false
	}
	it.back--
	return it.view.At(it.back), true
}

// Len returns the number of buckets not yet returned.
func (it *MultiIterator[T]) Len() int { return it.back - it.front }
