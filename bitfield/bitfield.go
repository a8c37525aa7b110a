package bitfield

import "encoding/binary"

// Integer is the set of scalar types a field can be decoded into.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// mask returns the low width bits set.
func mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// ReadUint reads an unsigned width-bit field starting offset bits into data.
func ReadUint(data []byte, offset, width uint) uint64 {
	if width == 0 {
		return 0
	}
	start := offset / 8
	shift := offset % 8

	// Fast path: a full little-endian word is available.
	if int(start)+8 <= len(data) {
		v := binary.LittleEndian.Uint64(data[start:]) >> shift
		if shift+width > 64 {
			v |= uint64(data[start+8]) << (64 - shift)
		}
		return v & mask(width)
	}

	// Near the end of the buffer only the bytes covered by the field are touched.
	var v uint64
	n := (shift + width + 7) / 8
	for i := uint(0); i < n; i++ {
		b := uint64(data[start+i])
		if i == 0 {
			v = b >> shift
			continue
		}
		v |= b << (i*8 - shift)
	}
	return v & mask(width)
}

// ReadInt reads a signed width-bit field and sign-extends it from bit width-1.
func ReadInt(data []byte, offset, width uint) int64 {
	if width == 0 {
		return 0
	}
	v := ReadUint(data, offset, width)
	s := 64 - width
	return int64(v<<s) >> s
}

// WriteUint stores the low width bits of value at offset bits into data.
func WriteUint(data []byte, offset, width uint, value uint64) {
	value &= mask(width)
	pos := offset
	for width > 0 {
		idx := pos / 8
		bit := pos % 8
		n := 8 - bit
		if n > width {
			n = width
		}
		m := byte(((uint(1) << n) - 1) << bit)
		data[idx] = (data[idx] &^ m) | (byte(value<<bit) & m)
		value >>= n
		pos += n
		width -= n
	}
}

// Read decodes a field into T. Signed types are sign-extended.
func Read[T Integer](data []byte, offset, width uint) T {
	if isSigned[T]() {
		return T(ReadInt(data, offset, width))
	}
	return T(ReadUint(data, offset, width))
}

// Write encodes value into a field. Negative values are stored in two's
// complement truncated to width bits.
func Write[T Integer](data []byte, offset, width uint, value T) {
	WriteUint(data, offset, width, uint64(value))
}

// ReadBool reads a single bit.
func ReadBool(data []byte, offset uint) bool {
	return data[offset/8]&(1<<(offset%8)) != 0
}

// WriteBool sets or clears a single bit.
func WriteBool(data []byte, offset uint, value bool) {
	if value {
		data[offset/8] |= 1 << (offset % 8)
		return
	}
	data[offset/8] &^= 1 << (offset % 8)
}

func isSigned[T Integer]() bool {
	var zero T
	return ^zero < zero
}
