// Package hash computes CRC32-Castagnoli checksums of resources.
//
// Checksums identify resource content across storage locations, so an
// archive copied between a directory, a tarball and an object store can be
// compared without byte-wise diffs. They are not stored in the archive
// format; inspection tools compute them on read.
//
//	sum := hash.CRC32C(content)
//	fp := hash.Fingerprint(schema, content) // covers the schema too
package hash
