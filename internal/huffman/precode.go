package huffman

import "github.com/elliotnunn/deflate/internal/deflatesym"

// PrecodeToken is one emitted precode symbol: either a literal codeword
// length 0..15, or one of the three run-length meta-symbols (spec §4.5,
// RFC 1951 section 3.2.7).
type PrecodeToken struct {
	Sym      uint8
	Extra    uint8
	ExtraVal uint32
}

const (
	repPrevSym  = 16 // repeat previous nonzero length 3-6 times
	repZeroSym  = 17 // repeat zero length 3-10 times
	repZeroLong = 18 // repeat zero length 11-138 times
)

// ScanLengths run-length-encodes a litlen+offset codeword-length sequence
// into the token stream the precode alphabet transmits, using the same
// run/count thresholds the reference DEFLATE encoders use (7/4 for a
// nonzero run, 138/3 for a zero run). The same token stream doubles as a
// symbol frequency source (for building the precode's own Huffman code)
// and as the literal emission sequence (once that code is built), so the
// run-length decision is made exactly once.
func ScanLengths(lengths []int) []PrecodeToken {
	var out []PrecodeToken
	n := len(lengths)
	if n == 0 {
		return out
	}

	prevlen := -1
	nextlen := lengths[0]
	count := 0
	maxCount, minCount := 7, 4
	if nextlen == 0 {
		maxCount, minCount = 138, 3
	}

	for i := 0; i < n; i++ {
		curlen := nextlen
		if i+1 < n {
			nextlen = lengths[i+1]
		} else {
			nextlen = -1 // sentinel: never equals a real length, forces the final flush
		}
		count++
		if count < maxCount && curlen == nextlen {
			continue
		}
		switch {
		case count < minCount:
			for j := 0; j < count; j++ {
				out = append(out, PrecodeToken{Sym: uint8(curlen)})
			}
		case curlen != 0:
			if curlen != prevlen {
				out = append(out, PrecodeToken{Sym: uint8(curlen)})
				count--
			}
			out = append(out, PrecodeToken{Sym: repPrevSym, Extra: 2, ExtraVal: uint32(count - 3)})
		case count <= 10:
			out = append(out, PrecodeToken{Sym: repZeroSym, Extra: 3, ExtraVal: uint32(count - 3)})
		default:
			out = append(out, PrecodeToken{Sym: repZeroLong, Extra: 7, ExtraVal: uint32(count - 11)})
		}
		count = 0
		prevlen = curlen
		switch {
		case nextlen == 0:
			maxCount, minCount = 138, 3
		case curlen == nextlen:
			maxCount, minCount = 6, 3
		default:
			maxCount, minCount = 7, 4
		}
	}
	return out
}

// PrecodeFrequencies tallies symbol frequencies from a token stream, for
// building the precode's own canonical Huffman code.
func PrecodeFrequencies(tokens []PrecodeToken) []int {
	freqs := make([]int, deflatesym.NumPrecodeSyms)
	for _, t := range tokens {
		freqs[t.Sym]++
	}
	return freqs
}
