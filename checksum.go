package deflate

import "github.com/elliotnunn/deflate/internal/checksum"

// Adler32 computes the RFC 1950 Adler-32 checksum of data, continuing from
// running value prev (pass 1 to start a fresh stream). zlib's trailer uses
// this exact checksum over the uncompressed payload.
func Adler32(prev uint32, data []byte) uint32 {
	return checksum.Adler32(prev, data)
}

// CRC32 computes the RFC 1952 CRC-32 of data, continuing from running value
// prev (pass 0 to start a fresh stream). Unlike internal/checksum's raw
// engine, this applies the standard init/final bit-complement convention
// at the boundary, so CRC32(0, data) matches the value any other CRC-32
// implementation (and the gzip trailer) computes for data, and intermediate
// results returned from one call can be fed straight into the next.
func CRC32(prev uint32, data []byte) uint32 {
	return checksum.CRC32(prev^0xffffffff, data) ^ 0xffffffff
}
