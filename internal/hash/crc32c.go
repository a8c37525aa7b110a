package hash

import "hash/crc32"

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Fingerprint checksums a resource's schema followed by its content. Two
// resources with equal content but different schemas get different
// fingerprints.
func Fingerprint(schema string, content []byte) uint32 {
	h := crc32.New(crc32cTable)
	_, _ = h.Write([]byte(schema))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	return h.Sum32()
}
