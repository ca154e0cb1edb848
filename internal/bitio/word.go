// Package bitio implements the unaligned word load/store primitives and the
// bit-buffer refill/consume protocol shared by the compressor and
// decompressor (spec §4.1, §9 "Unaligned access").
//
// Go does not expose a distinct "unaligned load" instruction the way C does;
// encoding/binary's LittleEndian helpers compile down to a single unaligned
// load on every architecture this module targets (amd64, arm64), which is
// exactly the load_word_unaligned/store_word_unaligned abstraction the spec
// calls for, without resorting to unsafe.
package bitio

import "encoding/binary"

// WordBytes is the width of the machine word used for match-copy and
// lz_extend operations. 8 bytes (64-bit) on every target this module builds
// for; a 32-bit fallback would redefine this to 4.
const WordBytes = 8

// LoadWord reads a WordBytes-wide little-endian word starting at buf[0].
// Callers must ensure buf has at least WordBytes bytes remaining; the hot
// loops only call this when the cursor is far enough from the buffer end
// (the "fast loop" invariant), exactly as spec §4.1 describes.
func LoadWord(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

// StoreWord writes v as a WordBytes-wide little-endian word starting at
// buf[0]. Same bounds contract as LoadWord.
func StoreWord(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// BroadcastByte replicates b into every byte lane of a word, used by the
// match-copy routine when offset == 1 (RLE-style runs).
func BroadcastByte(b byte) uint64 {
	return 0x0101010101010101 * uint64(b)
}

// LzExtend returns the number of leading bytes that match between two byte
// slices, up to max bytes, using a word-at-a-time XOR followed by a
// count-trailing-zeros on the first differing word (spec §4.4). cur and
// cand must both have at least `max` bytes available, or enough bytes that
// reading past the true data is harmless (the sliding window's dictionary
// area guarantees this for match-finder callers).
func LzExtend(cur, cand []byte, max int) int {
	n := 0
	for n+WordBytes <= max {
		x := LoadWord(cur[n:]) ^ LoadWord(cand[n:])
		if x != 0 {
			return n + trailingZeroBytes(x)
		}
		n += WordBytes
	}
	for n < max && cur[n] == cand[n] {
		n++
	}
	return n
}

// trailingZeroBytes returns the index of the first nonzero byte in x,
// assuming x != 0, via count-trailing-zeros (little-endian: the first byte
// that differs is the least significant nonzero byte).
func trailingZeroBytes(x uint64) int {
	return countTrailingZeros64(x) >> 3
}
