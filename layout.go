package flatdata

import "fmt"

// Field describes one bit-packed field of a struct.
type Field struct {
	Name   string
	Offset uint // bit offset from the start of the record
	Width  uint // bit width, 1..64
	Signed bool

	// Range, when set, names a range accessor derived from this field and
	// the same field of the next record. Declaring one makes the struct
	// overlap with the next record.
	Range string
}

// StructType is the descriptor of a fixed-size record type.
type StructType struct {
	Name             string
	Schema           string
	Fields           []Field
	SizeInBytes      int
	OverlapsWithNext bool

	byName map[string]int
}

// NewStructType builds a descriptor. The record size is the number of bytes
// needed to hold the field that ends last.
func NewStructType(name, schema string, fields ...Field) *StructType {
	st := &StructType{
		Name:   name,
		Schema: schema,
		Fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	var bits uint
	for i, f := range fields {
		if f.Width == 0 || f.Width > 64 {
			panic(fmt.Sprintf("flatdata: field %s.%s has width %d", name, f.Name, f.Width))
		}
		if _, dup := st.byName[f.Name]; dup {
			panic(fmt.Sprintf("flatdata: duplicate field %s.%s", name, f.Name))
		}
		st.byName[f.Name] = i
		if f.Range != "" {
			if _, dup := st.byName[f.Range]; dup {
				panic(fmt.Sprintf("flatdata: range %s.%s shadows a field", name, f.Range))
			}
			st.OverlapsWithNext = true
			st.byName[f.Range] = i
		}
		bits = max(bits, f.Offset+f.Width)
	}
	st.SizeInBytes = int((bits + 7) / 8)
	return st
}

// Field returns the field declared under name, or the field a range
// accessor called name is derived from.
func (st *StructType) Field(name string) (Field, bool) {
	i, ok := st.byName[name]
	if !ok {
		return Field{}, false
	}
	return st.Fields[i], true
}

func (st *StructType) mustField(name string) Field {
	f, ok := st.Field(name)
	if !ok {
		panic(fmt.Sprintf("flatdata: struct %s has no field %q", st.Name, name))
	}
	return f
}

// Layout binds a struct descriptor to its read and write view factories.
// R is the read view type and W the write view type.
type Layout[R, W any] struct {
	st  *StructType
	ref func([]byte) R
	mut func([]byte) W
}

// NewLayout creates a layout for st. ref and mut receive a window starting
// at the record; for overlapping structs the window also covers the next
// record.
func NewLayout[R, W any](st *StructType, ref func([]byte) R, mut func([]byte) W) *Layout[R, W] {
	return &Layout[R, W]{st: st, ref: ref, mut: mut}
}

// Type returns the struct descriptor.
func (l *Layout[R, W]) Type() *StructType { return l.st }

// Schema returns the struct's schema text.
func (l *Layout[R, W]) Schema() string { return l.st.Schema }

// SizeInBytes returns the record size.
func (l *Layout[R, W]) SizeInBytes() int { return l.st.SizeInBytes }

// OverlapsWithNext reports whether records need a trailing sentinel.
func (l *Layout[R, W]) OverlapsWithNext() bool { return l.st.OverlapsWithNext }

// Ref returns a read view over data, which starts at a record.
func (l *Layout[R, W]) Ref(data []byte) R { return l.ref(data) }

// Mut returns a write view over data, which starts at a record.
func (l *Layout[R, W]) Mut(data []byte) W { return l.mut(data) }

// window returns the bytes a view of record i in data may touch.
func (l *Layout[R, W]) window(data []byte, i int) []byte {
	return window(data, i, l.st.SizeInBytes, l.st.OverlapsWithNext)
}

func window(data []byte, i, size int, overlap bool) []byte {
	start := i * size
	end := start + size
	if overlap {
		end += size
	}
	end = min(end, len(data))
	return data[start:end:end]
}
