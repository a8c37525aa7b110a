// Package bitfield reads and writes bit-packed integer fields inside byte slices.
//
// Fields are addressed by a bit offset from the start of the slice and a bit
// width. Bits are numbered from the least significant bit of each byte and
// bytes are little-endian, so a field of width w starting at bit offset o
// occupies bits o..o+w-1 of the little-endian integer formed by the slice.
// A 64-bit field that starts at a non-zero bit within a byte spans 9 bytes.
//
// # Usage
//
//	buf := make([]byte, 16)
//	bitfield.Write[int32](buf, 3, 12, -7)
//	v := bitfield.Read[int32](buf, 3, 12) // -7
//
// Signed reads sign-extend from the field's most significant bit. Writes
// leave every bit outside the field untouched.
//
// The functions do not validate offsets or widths. Callers are generated
// accessors whose offsets are fixed by the schema; a span outside the slice
// panics like any out-of-range slice access.
package bitfield
