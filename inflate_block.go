package deflate

import (
	"github.com/elliotnunn/deflate/internal/bitio"
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/huffman"
)

// maxSymbolOutputBytes bounds how many output bytes a single litlen/offset
// symbol pair can produce: one maximum-length match. Used to size the fast
// loop's "danger zone" distance from the end of the output buffer.
const maxSymbolOutputBytes = deflatesym.MaxMatchLen

// decodeHuffmanBlock runs the literal/match execution loop for one
// fixed-or-dynamic Huffman block (spec §4.3). It switches between a
// bounds-check-light fast loop (while both cursors are far from their ends)
// and a fully-checked generic loop, exactly as spec §4.3 describes.
func decodeHuffmanBlock(br *bitio.Reader, out []byte, outPos int, litlen, offset *huffman.Table) (int, error) {
	for {
		var err error
		var done bool
		if br.CanFastLoop() && outPos+maxSymbolOutputBytes <= len(out) {
			outPos, done, err = fastLoopStep(br, out, outPos, litlen, offset)
		} else {
			outPos, done, err = genericLoop(br, out, outPos, litlen, offset)
		}
		if err != nil {
			return outPos, err
		}
		if done {
			return outPos, nil
		}
	}
}

// fastLoopStep executes one fast-loop iteration: refill, decode, act. It
// only runs while the caller has already verified both cursors are far
// enough from their ends that a maximum-sized symbol cannot overrun either
// buffer (spec §4.3).
func fastLoopStep(br *bitio.Reader, out []byte, outPos int, litlen, offset *huffman.Table) (newPos int, done bool, err error) {
	br.RefillFast()
	// One RefillFast guarantees at least W-7 = 57 valid bits. A litlen
	// codeword is at most 15 bits, so three literal decodes (45 bits)
	// always fit; a full match symbol (litlen 15 + length-extra 5 +
	// offset 15 + offset-extra 13 = 48 bits) fits too, but only as the
	// first decode of the cycle — so a match symbol always bails out
	// (returns) rather than chaining, and literal chaining re-checks
	// bits before every extra decode instead of assuming headroom.

	for inlineLits := 0; inlineLits < 3; inlineLits++ {
		e := litlen.Lookup(br.Peek64())
		n := huffman.EntryNumBits(e)
		if n == 0 {
			return outPos, false, ErrBadData
		}
		if uint(n) > br.BitsValid() {
			// Buffered bits ran low mid-cycle; let the next fast-loop
			// call refill rather than misreading this as bad data.
			return outPos, false, nil
		}
		br.Consume(uint(n))

		switch {
		case huffman.EntryIsLiteral(e):
			if outPos >= len(out) {
				return outPos, false, ErrInsufficientSpace
			}
			out[outPos] = byte(huffman.EntryPayload(e))
			outPos++
			// Opportunistically decode up to two more literals before the
			// next refill, amortizing refill cost on 64-bit (spec §4.3).
			if inlineLits < 2 && outPos < len(out) {
				continue
			}
			return outPos, false, nil
		case huffman.EntryIsEOB(e):
			return outPos, true, nil
		default:
			length := int(huffman.EntryPayload(e))
			extra := huffman.EntryExtraBits(e)
			if extra > 0 {
				if uint(extra) > br.BitsValid() {
					return outPos, false, nil
				}
				length += int(br.Peek(uint(extra)))
				br.Consume(uint(extra))
			}

			oe := offset.Lookup(br.Peek64())
			on := huffman.EntryNumBits(oe)
			if on == 0 {
				return outPos, false, ErrBadData
			}
			if uint(on) > br.BitsValid() {
				return outPos, false, nil
			}
			br.Consume(uint(on))
			off := int(huffman.EntryPayload(oe))
			oextra := huffman.EntryExtraBits(oe)
			if oextra > 0 {
				if uint(oextra) > br.BitsValid() {
					return outPos, false, nil
				}
				off += int(br.Peek(uint(oextra)))
				br.Consume(uint(oextra))
			}

			if off < deflatesym.MinMatchOffset || off > outPos {
				return outPos, false, ErrBadData
			}
			if outPos+length > len(out) {
				return outPos, false, ErrInsufficientSpace
			}
			copyMatch(out, outPos, length, off)
			outPos += length
			return outPos, false, nil
		}
	}
	return outPos, false, nil
}

// genericLoop is the fully bounds-checked fallback used once either cursor
// enters the "danger zone" near its end (spec §4.3). It decodes exactly one
// symbol per call and reports done only on a real end-of-block marker, so
// decodeHuffmanBlock can freely alternate it with fastLoopStep as the output
// cursor moves in and out of the danger zone.
func genericLoop(br *bitio.Reader, out []byte, outPos int, litlen, offset *huffman.Table) (int, bool, error) {
	br.Refill()
	if br.BitsValid() == 0 {
		return outPos, false, ErrBadData
	}
	e := litlen.Lookup(br.Peek64())
	n := huffman.EntryNumBits(e)
	if n == 0 {
		return outPos, false, ErrBadData
	}
	if uint(n) > br.BitsValid() {
		br.Refill()
		if uint(n) > br.BitsValid() {
			return outPos, false, ErrBadData
		}
	}
	br.Consume(uint(n))

	switch {
	case huffman.EntryIsLiteral(e):
		if outPos >= len(out) {
			return outPos, false, ErrInsufficientSpace
		}
		out[outPos] = byte(huffman.EntryPayload(e))
		outPos++
		return outPos, false, nil
	case huffman.EntryIsEOB(e):
		return outPos, true, nil
	default:
		length := int(huffman.EntryPayload(e))
		extra := huffman.EntryExtraBits(e)
		if extra > 0 {
			br.Refill()
			if uint(extra) > br.BitsValid() {
				return outPos, false, ErrBadData
			}
			length += int(br.Peek(uint(extra)))
			br.Consume(uint(extra))
		}

		br.Refill()
		oe := offset.Lookup(br.Peek64())
		on := huffman.EntryNumBits(oe)
		if on == 0 {
			return outPos, false, ErrBadData
		}
		if uint(on) > br.BitsValid() {
			br.Refill()
			if uint(on) > br.BitsValid() {
				return outPos, false, ErrBadData
			}
		}
		br.Consume(uint(on))
		off := int(huffman.EntryPayload(oe))
		oextra := huffman.EntryExtraBits(oe)
		if oextra > 0 {
			br.Refill()
			if uint(oextra) > br.BitsValid() {
				return outPos, false, ErrBadData
			}
			off += int(br.Peek(uint(oextra)))
			br.Consume(uint(oextra))
		}

		if off < deflatesym.MinMatchOffset || off > outPos {
			return outPos, false, ErrBadData
		}
		if outPos+length > len(out) {
			return outPos, false, ErrInsufficientSpace
		}
		copyMatch(out, outPos, length, off)
		outPos += length
		return outPos, false, nil
	}
}

// copyMatch writes length bytes at out[outPos:] copied from
// out[outPos-offset:], matching spec §4.3's word-at-a-time match-copy:
// offset==1 broadcasts a single byte across a word, offset>=WORDBYTES
// copies whole words, and smaller offsets fall back to a byte loop since
// the source and destination ranges can overlap within a word.
func copyMatch(out []byte, outPos, length, offset int) {
	src := outPos - offset
	dst := outPos

	if offset == 1 {
		word := bitio.BroadcastByte(out[src])
		for length >= bitio.WordBytes {
			bitio.StoreWord(out[dst:], word)
			dst += bitio.WordBytes
			length -= bitio.WordBytes
		}
		for length > 0 {
			out[dst] = out[src]
			dst++
			length--
		}
		return
	}

	if offset >= bitio.WordBytes {
		for length >= bitio.WordBytes {
			bitio.StoreWord(out[dst:], bitio.LoadWord(out[src:]))
			src += bitio.WordBytes
			dst += bitio.WordBytes
			length -= bitio.WordBytes
		}
		for length > 0 {
			out[dst] = out[src]
			dst++
			src++
			length--
		}
		return
	}

	for length > 0 {
		out[dst] = out[src]
		dst++
		src++
		length--
	}
}
