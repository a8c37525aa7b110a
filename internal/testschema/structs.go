package testschema

import (
	"github.com/hupe1980/flatdata"
	"github.com/hupe1980/flatdata/bitfield"
)

const (
	SchemaS      = "namespace test {\nstruct S {\n    x : u32 : 16;\n}\n}\n"
	SchemaSigned = "namespace test {\nstruct Signed {\n    a : i8 : 5;\n    b : u64 : 64;\n    c : i32 : 20;\n    d : bool : 1;\n}\n}\n"
	SchemaNode   = "namespace test {\nstruct Node {\n    @range(edges)\n    first_edge : u32 : 20;\n    kind : u8 : 4;\n}\n}\n"
	SchemaA      = "namespace test {\nstruct A {\n    value : u16 : 12;\n}\n}\n"
	SchemaB      = "namespace test {\nstruct B {\n    id : u64 : 40;\n    flag : bool : 1;\n}\n}\n"
)

// S

var SType = flatdata.NewStructType("S", SchemaS,
	flatdata.Field{Name: "x", Offset: 0, Width: 16},
)

var SLayout = flatdata.NewLayout(SType,
	func(data []byte) SRef { return SRef{data} },
	func(data []byte) SMut { return SMut{SRef{data}} },
)

type SRef struct{ data []byte }

func (s SRef) X() uint32     { return bitfield.Read[uint32](s.data, 0, 16) }
func (s SRef) Bytes() []byte { return s.data }

type SMut struct{ SRef }

func (s SMut) SetX(v uint32)   { bitfield.Write(s.data, 0, 16, v) }
func (s SMut) CopyFrom(o SRef) { s.SetX(o.X()) }

// Signed

var SignedType = flatdata.NewStructType("Signed", SchemaSigned,
	flatdata.Field{Name: "a", Offset: 0, Width: 5, Signed: true},
	flatdata.Field{Name: "b", Offset: 5, Width: 64},
	flatdata.Field{Name: "c", Offset: 69, Width: 20, Signed: true},
	flatdata.Field{Name: "d", Offset: 89, Width: 1},
)

var SignedLayout = flatdata.NewLayout(SignedType,
	func(data []byte) SignedRef { return SignedRef{data} },
	func(data []byte) SignedMut { return SignedMut{SignedRef{data}} },
)

type SignedRef struct{ data []byte }

func (s SignedRef) A() int8   { return bitfield.Read[int8](s.data, 0, 5) }
func (s SignedRef) B() uint64 { return bitfield.Read[uint64](s.data, 5, 64) }
func (s SignedRef) C() int32  { return bitfield.Read[int32](s.data, 69, 20) }
func (s SignedRef) D() bool   { return bitfield.ReadBool(s.data, 89) }

type SignedMut struct{ SignedRef }

func (s SignedMut) SetA(v int8)   { bitfield.Write(s.data, 0, 5, v) }
func (s SignedMut) SetB(v uint64) { bitfield.Write(s.data, 5, 64, v) }
func (s SignedMut) SetC(v int32)  { bitfield.Write(s.data, 69, 20, v) }
func (s SignedMut) SetD(v bool)   { bitfield.WriteBool(s.data, 89, v) }

func (s SignedMut) CopyFrom(o SignedRef) {
	s.SetA(o.A())
	s.SetB(o.B())
	s.SetC(o.C())
	s.SetD(o.D())
}

// Node

var NodeType = flatdata.NewStructType("Node", SchemaNode,
	flatdata.Field{Name: "first_edge", Offset: 0, Width: 20, Range: "edges"},
	flatdata.Field{Name: "kind", Offset: 20, Width: 4},
)

var NodeLayout = flatdata.NewLayout(NodeType,
	func(data []byte) NodeRef { return NodeRef{data} },
	func(data []byte) NodeMut { return NodeMut{NodeRef{data}} },
)

type NodeRef struct{ data []byte }

func (n NodeRef) FirstEdge() uint32 { return bitfield.Read[uint32](n.data, 0, 20) }
func (n NodeRef) Kind() uint8       { return bitfield.Read[uint8](n.data, 20, 4) }

// Edges is the range [first_edge, next.first_edge).
func (n NodeRef) Edges() (uint32, uint32) {
	return n.FirstEdge(), bitfield.Read[uint32](n.data, 24, 20)
}

type NodeMut struct{ NodeRef }

func (n NodeMut) SetFirstEdge(v uint32) { bitfield.Write(n.data, 0, 20, v) }
func (n NodeMut) SetKind(v uint8)       { bitfield.Write(n.data, 20, 4, v) }

func (n NodeMut) CopyFrom(o NodeRef) {
	n.SetFirstEdge(o.FirstEdge())
	n.SetKind(o.Kind())
}

// A

var AType = flatdata.NewStructType("A", SchemaA,
	flatdata.Field{Name: "value", Offset: 0, Width: 12},
)

var ALayout = flatdata.NewLayout(AType,
	func(data []byte) ARef { return ARef{data} },
	func(data []byte) AMut { return AMut{ARef{data}} },
)

type ARef struct{ data []byte }

func (a ARef) Value() uint16 { return bitfield.Read[uint16](a.data, 0, 12) }

type AMut struct{ ARef }

func (a AMut) SetValue(v uint16) { bitfield.Write(a.data, 0, 12, v) }

// B

var BType = flatdata.NewStructType("B", SchemaB,
	flatdata.Field{Name: "id", Offset: 0, Width: 40},
	flatdata.Field{Name: "flag", Offset: 40, Width: 1},
)

var BLayout = flatdata.NewLayout(BType,
	func(data []byte) BRef { return BRef{data} },
	func(data []byte) BMut { return BMut{BRef{data}} },
)

type BRef struct{ data []byte }

func (b BRef) ID() uint64 { return bitfield.Read[uint64](b.data, 0, 40) }
func (b BRef) Flag() bool { return bitfield.ReadBool(b.data, 40) }

type BMut struct{ BRef }

func (b BMut) SetID(v uint64) { bitfield.Write(b.data, 0, 40, v) }
func (b BMut) SetFlag(v bool) { bitfield.WriteBool(b.data, 40, v) }

// Multi is the item type of multivector Archive.multi.
type Multi interface{ isMulti() }

func (ARef) isMulti() {}
func (BRef) isMulti() {}

const (
	MultiTagA byte = iota
	MultiTagB
)

var MultiVariants = []flatdata.Variant[Multi]{
	flatdata.NewVariant(MultiTagA, ALayout, func(r ARef) Multi { return r }),
	flatdata.NewVariant(MultiTagB, BLayout, func(r BRef) Multi { return r }),
}

// MultiBucket adds items to one bucket of Archive.multi.
type MultiBucket struct {
	*flatdata.Bucket[Multi]
}

func (b MultiBucket) AddA() AMut { return flatdata.AddItem(b.Bucket, MultiVariants[MultiTagA], ALayout) }
func (b MultiBucket) AddB() BMut { return flatdata.AddItem(b.Bucket, MultiVariants[MultiTagB], BLayout) }
