package hash

import (
	"encoding/binary"
	"hash/crc32"
)

// ChecksumSize is the encoded checksum length in bytes.
const ChecksumSize = 4

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// AppendChecksum appends the little-endian CRC32C of block to dst.
func AppendChecksum(dst, block []byte) []byte {
	return binary.LittleEndian.AppendUint32(dst, CRC32C(block))
}

// VerifyChecksum reports whether sum holds the encoded CRC32C of block.
func VerifyChecksum(sum, block []byte) bool {
	return len(sum) == ChecksumSize && binary.LittleEndian.Uint32(sum) == CRC32C(block)
}
