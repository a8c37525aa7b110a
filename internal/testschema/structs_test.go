package testschema

import (
	"testing"

	"github.com/hupe1980/flatdata"
	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{SType.Name, 2},
		{SignedType.Name, 12},
		{NodeType.Name, 3},
		{AType.Name, 2},
		{BType.Name, 6},
	}
	layouts := map[string]int{
		"S":      SLayout.SizeInBytes(),
		"Signed": SignedLayout.SizeInBytes(),
		"Node":   NodeLayout.SizeInBytes(),
		"A":      ALayout.SizeInBytes(),
		"B":      BLayout.SizeInBytes(),
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, layouts[tt.name])
		})
	}
	assert.True(t, NodeLayout.OverlapsWithNext())
}

func TestSignedAccessors(t *testing.T) {
	buf := make([]byte, SignedLayout.SizeInBytes())
	m := SignedLayout.Mut(buf)
	m.SetA(15)
	m.SetB(0x8000_0000_0000_0001)
	m.SetC(-1)
	m.SetD(true)

	r := SignedLayout.Ref(buf)
	assert.Equal(t, int8(15), r.A())
	assert.Equal(t, uint64(0x8000_0000_0000_0001), r.B())
	assert.Equal(t, int32(-1), r.C())
	assert.True(t, r.D())

	// The dynamic view decodes the same bytes.
	rec := flatdata.DynamicLayout(SignedType).Ref(buf)
	assert.Equal(t, int64(15), rec.Get("a"))
	assert.Equal(t, int64(-1), rec.Get("c"))
	assert.Equal(t, int64(1), rec.Get("d"))

	other := make([]byte, len(buf))
	SignedLayout.Mut(other).CopyFrom(r)
	assert.Equal(t, buf, other)
}

func TestNodeEdges(t *testing.T) {
	buf := make([]byte, 2*NodeLayout.SizeInBytes())
	NodeLayout.Mut(buf).SetFirstEdge(3)
	NodeLayout.Mut(buf).SetKind(9)
	NodeLayout.Mut(buf[3:]).SetFirstEdge(0xFFFFF)

	start, end := NodeLayout.Ref(buf).Edges()
	assert.Equal(t, uint32(3), start)
	assert.Equal(t, uint32(0xFFFFF), end)
	assert.Equal(t, uint8(9), NodeLayout.Ref(buf).Kind())
}
