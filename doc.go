// Package flatdata is a zero-copy runtime for bit-packed binary archives.
//
// Records are fixed-size structs whose fields sit at arbitrary bit offsets.
// Reading never deserialises: views hold a window into the backing bytes
// and decode fields on access. The containers built on top of that are
//
//   - ArrayView, a read-only fixed-stride sequence of records;
//   - Vector, an in-memory growable sequence serialised in one shot;
//   - ExternalVector, a growable sequence that streams to storage;
//   - MultiVector and MultiArrayView, an index of buckets each holding
//     zero or more tagged records of differing types.
//
// Resources are named byte regions in a storage.ResourceStorage. Every
// resource carries its schema as a companion resource and reads fail unless
// the stored schema equals the expected one exactly.
//
// # Quick Start
//
// Generated code declares one Layout per struct. By hand:
//
//	st := flatdata.NewStructType("S", schemaS, flatdata.Field{Name: "x", Offset: 0, Width: 16})
//	layout := flatdata.DynamicLayout(st)
//
//	v := flatdata.NewVector(layout)
//	v.Grow().Set("x", 10)
//	v.Grow().Set("x", 20)
//
//	store := storage.New(storage.NewMemoryBackend())
//	_ = flatdata.WriteVector(ctx, store, "data", schemaData, v)
//
//	view, _ := flatdata.ReadArray(ctx, store, "data", schemaData, layout)
//	fmt.Println(view.Len(), view.At(1).Get("x")) // 2 20
//
// # Overlapping structs
//
// A struct with a range field overlaps the next record: the range end of
// element i is the field value of element i+1. Sequences of such structs
// carry one trailing sentinel record that ArrayView.Len does not count.
//
// # Views and growth
//
// Write views returned by Vector.Grow, Vector.At and Bucket.Add alias the
// container's buffer. Growing may reallocate it, so a write view is only
// valid until the next Grow or Add on the same container.
//
// # Thread Safety
//
// Read views and ArrayView/MultiArrayView are safe for concurrent readers.
// Vectors, external vectors and multivectors are single-writer.
package flatdata
