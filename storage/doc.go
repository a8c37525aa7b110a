// Package storage implements the resource storage contract of flatdata archives.
//
// A resource is a named byte blob stored next to a schema resource
// (`{name}.schema`) holding the exact schema text it was written with.
// Resource bytes are framed as
//
//	[size: u64 little-endian][content: size bytes][padding: PaddingSize zero bytes]
//
// The padding guarantees that the widest field read at the end of the content
// never runs past the buffer.
//
// # Backends
//
// A [Backend] supplies four primitives: read a resource, create an output
// stream, descend into a sub-directory and probe existence. Everything else
// (framing, schema validation, streaming handles) is implemented once by
// [ResourceStorage]. Built-in backends:
//
//   - [MemoryBackend]: in-memory, for tests and transient archives
//   - [FileBackend]: directory tree, reads are memory-mapped
//   - tarball.Backend: read-only tar archives (optionally compressed)
//   - s3.Backend and minio.Backend: object stores
//
// # Reading
//
//	st := storage.New(storage.NewFileBackend("/data/graph"))
//	data, err := st.Read(ctx, "vertices", verticesSchema)
//	switch {
//	case errors.Is(err, storage.ErrNotFound):
//	case errors.Is(err, storage.ErrWrongSignature):
//	}
//
// Read never copies: the returned slice aliases the backend's buffer (for
// FileBackend, the mapped file) and is valid for the backend's lifetime.
//
// # Writing
//
// Small resources are written in one call with Write. Large ones are
// streamed through a [ResourceHandle] obtained from CreateResource; the
// handle reserves the size prefix, appends content as it arrives and
// patches the prefix on Close.
package storage
