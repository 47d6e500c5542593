// Package hash checksums snapshot blocks with CRC32-Castagnoli. The
// checksum is stored as 4 little-endian bytes in front of the block it
// covers.
package hash
