// Package mmap maps files into memory read-only for zero-copy resource access.
//
// A Mapping owns the mapped bytes; slices returned by Bytes are valid until
// Close. Storage backends keep mappings alive for their own lifetime so that
// views handed out to readers never dangle.
//
//	m, err := mmap.Open("archive/data")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile, with Advise as a no-op.
package mmap
