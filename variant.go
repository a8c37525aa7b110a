package flatdata

import "fmt"

// Variant is one alternative record type of a multivector's sum type T.
type Variant[T any] struct {
	Tag    byte
	Name   string
	Size   int
	decode func([]byte) T
}

// NewVariant builds the variant with the given tag from a struct layout.
// wrap converts the layout's read view into the sum type.
func NewVariant[T, R, W any](tag byte, layout *Layout[R, W], wrap func(R) T) Variant[T] {
	return Variant[T]{
		Tag:    tag,
		Name:   layout.Type().Name,
		Size:   layout.SizeInBytes(),
		decode: func(data []byte) T { return wrap(layout.Ref(data)) },
	}
}

// Decode returns the read view of a payload of this variant.
func (v Variant[T]) Decode(payload []byte) T { return v.decode(payload) }

// variantTable dispatches tag bytes to variants.
type variantTable[T any] struct {
	byTag [256]*Variant[T]
	list  []Variant[T]
}

func newVariantTable[T any](variants []Variant[T]) *variantTable[T] {
	t := &variantTable[T]{list: variants}
	for i := range variants {
		v := &t.list[i]
		if t.byTag[v.Tag] != nil {
			panic(fmt.Sprintf("flatdata: duplicate variant tag %d (%s, %s)", v.Tag, t.byTag[v.Tag].Name, v.Name))
		}
		t.byTag[v.Tag] = v
	}
	return t
}

func (t *variantTable[T]) lookup(tag byte) (*Variant[T], bool) {
	v := t.byTag[tag]
	return v, v != nil
}
