package flatdata

import (
	"fmt"
	"sync"

	"github.com/hupe1980/flatdata/bitfield"
)

// IndexRef is the read view of a multivector index entry.
type IndexRef struct {
	data []byte
	bits uint
	size uint
}

// Value returns the byte offset where the entry's bucket starts.
func (r IndexRef) Value() uint64 { return bitfield.ReadUint(r.data, 0, r.bits) }

// Range returns the bucket's byte range [start, end), ending where the
// next entry's bucket starts.
func (r IndexRef) Range() (start, end uint64) {
	return r.Value(), bitfield.ReadUint(r.data, r.size*8, r.bits)
}

// IndexMut is the write view of a multivector index entry.
type IndexMut struct {
	IndexRef
}

// SetValue stores the bucket start offset.
func (m IndexMut) SetValue(v uint64) { bitfield.WriteUint(m.data, 0, m.bits, v) }

// IndexSchema returns the schema of the builtin index struct of the given
// width.
func IndexSchema(bits uint) string {
	return fmt.Sprintf("struct IndexType%d {\n    value : u64 : %d;\n}\n", bits, bits)
}

var indexLayouts sync.Map // uint -> *Layout[IndexRef, IndexMut]

// IndexLayout returns the layout of the builtin index struct: a single
// unsigned value of the given width with a range derived from the next
// entry. It overlaps with the next record.
func IndexLayout(bits uint) *Layout[IndexRef, IndexMut] {
	if l, ok := indexLayouts.Load(bits); ok {
		return l.(*Layout[IndexRef, IndexMut])
	}
	if bits == 0 || bits > 64 {
		panic(fmt.Sprintf("flatdata: index width %d out of range [1, 64]", bits))
	}
	st := NewStructType(fmt.Sprintf("IndexType%d", bits), IndexSchema(bits),
		Field{Name: "value", Offset: 0, Width: bits, Range: "range"},
	)
	size := uint(st.SizeInBytes)
	l := NewLayout(st,
		func(data []byte) IndexRef { return IndexRef{data: data, bits: bits, size: size} },
		func(data []byte) IndexMut { return IndexMut{IndexRef{data: data, bits: bits, size: size}} },
	)
	actual, _ := indexLayouts.LoadOrStore(bits, l)
	return actual.(*Layout[IndexRef, IndexMut])
}

// IndexResource returns the name and schema of the index resource that
// accompanies a multivector resource.
func IndexResource(name, schema string) (string, string) {
	return name + "_index", "index(" + schema + ")"
}
