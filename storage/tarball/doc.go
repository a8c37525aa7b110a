// Package tarball provides a read-only storage backend over tar archives.
//
// Uncompressed tar files are memory-mapped and entries are served as
// sub-slices of the mapping, so reads do not copy. Compressed tar files
// (gzip, zstd, lz4) are decompressed into memory once on open.
//
// Entry names are normalised: a leading "./" or "/" is stripped and the
// path is cleaned, so archives produced by `tar -C dir -cf out.tar .`
// resolve the same resource names as the directory they were made from.
package tarball
