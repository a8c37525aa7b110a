package flatdata

import "github.com/hupe1980/flatdata/bitfield"

// Record is a table-driven read view over one record. It serves schemas
// that have no generated accessors, such as inspection tools.
type Record struct {
	st   *StructType
	data []byte
}

// RecordMut is the write counterpart of Record.
type RecordMut struct {
	Record
}

// DynamicLayout returns a layout whose views interpret records through
// the descriptor at runtime.
func DynamicLayout(st *StructType) *Layout[Record, RecordMut] {
	return NewLayout(st,
		func(data []byte) Record { return Record{st: st, data: data} },
		func(data []byte) RecordMut { return RecordMut{Record{st: st, data: data}} },
	)
}

// Type returns the record's descriptor.
func (r Record) Type() *StructType { return r.st }

// Bytes returns the window the view reads from.
func (r Record) Bytes() []byte { return r.data }

// Get returns a field value. Signed fields are sign-extended; unsigned
// 64-bit values above math.MaxInt64 come back reinterpreted as negative.
func (r Record) Get(name string) int64 {
	return r.read(r.st.mustField(name), 0)
}

// GetAt returns the value of the i-th declared field.
func (r Record) GetAt(i int) int64 {
	return r.read(r.st.Fields[i], 0)
}

// Range returns the half-open range [start, end) derived from a range
// field: start is this record's value and end the next record's.
func (r Record) Range(name string) (start, end int64) {
	f := r.st.mustField(name)
	next := uint(r.st.SizeInBytes) * 8
	return r.read(f, 0), r.read(f, next)
}

func (r Record) read(f Field, base uint) int64 {
	if f.Signed {
		return bitfield.ReadInt(r.data, base+f.Offset, f.Width)
	}
	return int64(bitfield.ReadUint(r.data, base+f.Offset, f.Width))
}

// Set stores the low Width bits of v into a field.
func (r RecordMut) Set(name string, v int64) {
	f := r.st.mustField(name)
	bitfield.WriteUint(r.data, f.Offset, f.Width, uint64(v))
}

// CopyFrom copies every field from src, which must share the descriptor.
func (r RecordMut) CopyFrom(src Record) {
	for _, f := range r.st.Fields {
		bitfield.WriteUint(r.data, f.Offset, f.Width, bitfield.ReadUint(src.data, f.Offset, f.Width))
	}
}
