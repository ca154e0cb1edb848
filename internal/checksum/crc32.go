package checksum

import "github.com/elliotnunn/deflate/internal/cpudetect"

// crc32Poly is the reflected CRC-32/ISO-HDLC polynomial RFC 1952 section
// 8 specifies (the same one ZIP and Ethernet use).
const crc32Poly = 0xedb88320

var crc32Table [256]uint32

// crc32Table8 holds eight 256-entry tables for the slicing-by-8 variant:
// table[0] is the ordinary byte table, table[k>0] is table[k-1] run through
// the polynomial division an extra time, letting eight input bytes be
// folded in per loop iteration instead of one.
var crc32Table8 [8][256]uint32

func init() {
	for i := range crc32Table {
		c := uint32(i)
		for range 8 {
			if c&1 != 0 {
				c = crc32Poly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		crc32Table[i] = c
	}
	crc32Table8[0] = crc32Table
	for i := range 256 {
		c := crc32Table[i]
		for k := 1; k < 8; k++ {
			c = crc32Table[c&0xff] ^ (c >> 8)
			crc32Table8[k][i] = c
		}
	}
}

// CRC32 computes the RFC 1952 CRC-32 of data, continuing from running value
// prev (pass 0xffffffff, the pre-complemented initial value, to start a
// fresh stream; complement the final result). The returned value, like prev, is
// already in its "current" (not bit-complemented) form; callers own the
// complement-on-init/complement-on-output convention at the wrapper layer.
func CRC32(prev uint32, data []byte) uint32 {
	if cpudetect.Detect().Has(cpudetect.HasWide256) && len(data) >= 64 {
		return crc32Slicing8(prev, data)
	}
	return crc32Scalar(prev, data)
}

func crc32Scalar(prev uint32, data []byte) uint32 {
	c := prev
	for _, b := range data {
		c = crc32Table[byte(c)^b] ^ (c >> 8)
	}
	return c
}

// crc32Slicing8 processes eight bytes per iteration by combining eight
// table lookups instead of eight serial single-byte steps, the standard
// "slicing-by-8" technique: real parallelism without any actual SIMD.
func crc32Slicing8(prev uint32, data []byte) uint32 {
	c := prev
	for len(data) >= 8 {
		c ^= uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		c = crc32Table8[7][byte(c)] ^
			crc32Table8[6][byte(c>>8)] ^
			crc32Table8[5][byte(c>>16)] ^
			crc32Table8[4][byte(c>>24)] ^
			crc32Table8[3][data[4]] ^
			crc32Table8[2][data[5]] ^
			crc32Table8[1][data[6]] ^
			crc32Table8[0][data[7]]
		data = data[8:]
	}
	return crc32Scalar(c, data)
}
