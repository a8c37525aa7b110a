package bitfield

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsignedSamples(rng *rand.Rand, width uint) []uint64 {
	m := mask(width)
	out := []uint64{0, 1 & m, m, m >> 1}
	for i := 0; i < 8; i++ {
		out = append(out, rng.Uint64()&m)
	}
	return out
}

func signedSamples(rng *rand.Rand, width uint) []int64 {
	maxV := int64(mask(width-1))
	minV := -maxV - 1
	out := []int64{0, minV, maxV}
	if width > 1 {
		out = append(out, -1, 1)
	}
	for i := 0; i < 8; i++ {
		v := int64(rng.Uint64()&mask(width)) + minV
		out = append(out, v)
	}
	return out
}

func TestRoundTripUnsigned(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for width := uint(1); width <= 64; width++ {
		for offset := uint(0); offset < 8; offset++ {
			for _, v := range unsignedSamples(rng, width) {
				// Exactly the bytes spanned, so the slow path is exercised too.
				span := (offset + width + 7) / 8
				for _, size := range []uint{span, 16} {
					buf := make([]byte, size)
					WriteUint(buf, offset, width, v)
					require.Equal(t, v, ReadUint(buf, offset, width), "width=%d offset=%d size=%d", width, offset, size)
				}
			}
		}
	}
}

func TestRoundTripSigned(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for width := uint(1); width <= 64; width++ {
		for offset := uint(0); offset < 8; offset++ {
			for _, v := range signedSamples(rng, width) {
				span := (offset + width + 7) / 8
				for _, size := range []uint{span, 16} {
					buf := make([]byte, size)
					Write(buf, offset, width, v)
					require.Equal(t, v, Read[int64](buf, offset, width), "width=%d offset=%d size=%d", width, offset, size)
				}
			}
		}
	}
}

func TestWritePreservesNeighbours(t *testing.T) {
	for width := uint(1); width <= 64; width++ {
		for offset := uint(0); offset < 8; offset++ {
			buf := make([]byte, 12)
			for i := range buf {
				buf[i] = 0xFF
			}
			WriteUint(buf, offset, width, 0)

			assert.Equal(t, uint64(0), ReadUint(buf, offset, width))
			for bit := uint(0); bit < uint(len(buf))*8; bit++ {
				if bit >= offset && bit < offset+width {
					continue
				}
				require.True(t, ReadBool(buf, bit), "bit %d clobbered by width=%d offset=%d", bit, width, offset)
			}
		}
	}
}

func TestTypedReads(t *testing.T) {
	buf := make([]byte, 16)

	Write[int8](buf, 5, 4, -3)
	assert.Equal(t, int8(-3), Read[int8](buf, 5, 4))

	Write[uint16](buf, 17, 16, 0xBEEF)
	assert.Equal(t, uint16(0xBEEF), Read[uint16](buf, 17, 16))

	Write[int32](buf, 40, 32, -123456)
	assert.Equal(t, int32(-123456), Read[int32](buf, 40, 32))

	// The earlier fields survive the later writes.
	assert.Equal(t, int8(-3), Read[int8](buf, 5, 4))
	assert.Equal(t, uint16(0xBEEF), Read[uint16](buf, 17, 16))
}

func TestNamedTypes(t *testing.T) {
	type level int16
	buf := make([]byte, 4)
	Write[level](buf, 2, 10, -200)
	assert.Equal(t, level(-200), Read[level](buf, 2, 10))
}

func TestSignExtension(t *testing.T) {
	buf := []byte{0x0F}
	assert.Equal(t, int64(-1), ReadInt(buf, 0, 4))
	assert.Equal(t, uint64(15), ReadUint(buf, 0, 4))
	assert.Equal(t, int64(15), ReadInt(buf, 0, 5))
	assert.Equal(t, int64(0), ReadInt(buf, 4, 4))
}

func TestKnownLayout(t *testing.T) {
	// x: u32 at bit 0 width 16 in a 2-byte record.
	buf := make([]byte, 2)
	WriteUint(buf, 0, 16, 0x1234)
	assert.Equal(t, []byte{0x34, 0x12}, buf)

	buf = make([]byte, 2)
	WriteUint(buf, 3, 5, 0x1F)
	assert.Equal(t, []byte{0xF8, 0x00}, buf)

	// 64-bit value misaligned by 7 bits spans 9 bytes.
	buf = make([]byte, 9)
	WriteUint(buf, 7, 64, ^uint64(0))
	assert.Equal(t, byte(0x80), buf[0])
	assert.Equal(t, byte(0x7F), buf[8])
	assert.Equal(t, ^uint64(0), ReadUint(buf, 7, 64))
}

func TestBool(t *testing.T) {
	buf := make([]byte, 2)
	WriteBool(buf, 9, true)
	assert.True(t, ReadBool(buf, 9))
	assert.Equal(t, []byte{0, 0x02}, buf)
	WriteBool(buf, 9, false)
	assert.False(t, ReadBool(buf, 9))
	assert.Equal(t, []byte{0, 0}, buf)
}

func TestZeroWidth(t *testing.T) {
	buf := []byte{0xFF}
	assert.Equal(t, uint64(0), ReadUint(buf, 3, 0))
	assert.Equal(t, int64(0), ReadInt(buf, 3, 0))
	WriteUint(buf, 3, 0, 1)
	assert.Equal(t, byte(0xFF), buf[0])
}
