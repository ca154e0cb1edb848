// Package deflatesym holds the DEFLATE symbol tables defined by RFC 1951
// section 3.2.5. These are the only state shared between the compressor and
// the decompressor: length/offset base values and their extra-bit counts.
package deflatesym

const (
	MaxCodeLen     = 15 // litlen/offset codeword length cap
	PrecodeMaxLen  = 7  // precode codeword length cap
	MinMatchLen    = 3
	MaxMatchLen    = 258
	MinMatchOffset = 1
	MaxMatchOffset = 32768
	WindowSize     = MaxMatchOffset

	NumLitLenSyms  = 286 // 256 literals + EOB + 29 length codes
	NumOffsetSyms  = 30
	NumPrecodeSyms = 19

	EndOfBlockSym = 256
)

// LengthBase[sym-257] is the smallest match length encoded by length symbol
// sym. LengthExtraBits[sym-257] is the number of extra bits that follow.
var LengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var LengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// OffsetBase[sym] is the smallest match offset encoded by offset symbol sym.
// OffsetExtraBits[sym] is the number of extra bits that follow.
var OffsetBase = [30]uint32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var OffsetExtraBits = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// CodeLengthOrder is the order in which precode codeword lengths are
// transmitted (RFC 1951 section 3.2.7): designed so that lengths for the
// run-length meta-symbols (16, 17, 18) come first, letting HCLEN shrink on
// typical inputs.
var CodeLengthOrder = [NumPrecodeSyms]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5,
	11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// LengthSymFor returns the litlen symbol (257..285) and base/extra-bit info
// index for a match length in [MinMatchLen, MaxMatchLen].
func LengthSymFor(length int) (sym int, extraBits uint8, extraVal uint32) {
	lo, hi := 0, len(LengthBase)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if int(LengthBase[mid]) <= length {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	extraBits = LengthExtraBits[lo]
	extraVal = uint32(length) - uint32(LengthBase[lo])
	return 257 + lo, extraBits, extraVal
}

// OffsetSymFor returns the offset symbol (0..29) and extra-bit info for a
// match offset in [MinMatchOffset, MaxMatchOffset].
func OffsetSymFor(offset int) (sym int, extraBits uint8, extraVal uint32) {
	lo, hi := 0, len(OffsetBase)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if OffsetBase[mid] <= uint32(offset) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	extraBits = OffsetExtraBits[lo]
	extraVal = uint32(offset) - OffsetBase[lo]
	return lo, extraBits, extraVal
}
