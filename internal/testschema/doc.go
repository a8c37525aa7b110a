// Package testschema is a fixture archive written in the form the schema
// generator emits. It exercises every resource kind: mandatory and optional
// structs, vectors, multivectors, raw blobs and a sub-archive.
//
// The schema it implements:
//
//	namespace test {
//	struct S { x : u32 : 16; }
//	struct Signed { a : i8 : 5; b : u64 : 64; c : i32 : 20; d : bool : 1; }
//	struct Node { @range(edges) first_edge : u32 : 20; kind : u8 : 4; }
//	struct A { value : u16 : 12; }
//	struct B { id : u64 : 40; flag : bool : 1; }
//	archive Sub { payload : raw_data; }
//	archive Blobs { data : raw_data; @optional optional_data : raw_data; }
//	archive Archive {
//	    data : raw_data;
//	    @optional optional_data : raw_data;
//	    header : S;
//	    @optional footer : S;
//	    items : vector< S >;
//	    nodes : vector< Node >;
//	    @optional values : vector< Signed >;
//	    multi : multivector< 32, A, B >;
//	    @optional sub : archive Sub;
//	}
//	}
package testschema
