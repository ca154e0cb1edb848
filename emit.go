package deflate

import (
	"github.com/elliotnunn/deflate/internal/bitio"
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/huffman"
)

// token is one parsed item from a compressor strategy: a literal byte
// (length == 0) or a length/offset match.
type token struct {
	lit    byte
	length int
	offset int
}

func litToken(b byte) token               { return token{lit: b} }
func matchToken(length, offset int) token { return token{length: length, offset: offset} }

// tokenFreqs tallies litlen/offset symbol frequencies across tokens,
// including one synthetic end-of-block occurrence, for both the fixed-cost
// estimate and dynamic code construction.
func tokenFreqs(tokens []token) (litFreq [deflatesym.NumLitLenSyms]int, offFreq [deflatesym.NumOffsetSyms]int) {
	for _, tok := range tokens {
		if tok.length == 0 {
			litFreq[tok.lit]++
			continue
		}
		sym, _, _ := deflatesym.LengthSymFor(tok.length)
		litFreq[sym]++
		osym, _, _ := deflatesym.OffsetSymFor(tok.offset)
		offFreq[osym]++
	}
	litFreq[deflatesym.EndOfBlockSym]++
	return
}

func fixedLitLenLengths() []int {
	lengths := make([]int, deflatesym.NumLitLenSyms)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < deflatesym.NumLitLenSyms; i++ {
		lengths[i] = 8
	}
	return lengths
}

func fixedOffsetLengths() []int {
	lengths := make([]int, deflatesym.NumOffsetSyms)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}

// tokenStreamCost sums the bit cost of every token plus end-of-block, given
// a candidate litlen/offset codeword-length assignment.
func tokenStreamCost(tokens []token, litLen, offLen []int) int {
	cost := litLen[deflatesym.EndOfBlockSym]
	for _, tok := range tokens {
		if tok.length == 0 {
			cost += litLen[tok.lit]
			continue
		}
		sym, extra, _ := deflatesym.LengthSymFor(tok.length)
		cost += litLen[sym] + int(extra)
		osym, oextra, _ := deflatesym.OffsetSymFor(tok.offset)
		cost += offLen[osym] + int(oextra)
	}
	return cost
}

// dynamicCode is a built dynamic-block code plus the codeword-length
// sequence needed to transmit it, cached so emitDynamic doesn't rebuild it
// after costDynamic already did.
type dynamicCode struct {
	litLen, offLen []int
	nlit, ndist    int
	precodeTokens  []huffman.PrecodeToken
	precodeLen     []int
}

// buildDynamicCode constructs the custom litlen/offset code for tokens and
// the precode needed to describe it, mirroring spec §4.5's "code
// construction" paragraph.
func buildDynamicCode(tokens []token) dynamicCode {
	litFreq, offFreq := tokenFreqs(tokens)
	litLen := huffman.BuildLengths(litFreq[:], deflatesym.MaxCodeLen)
	offLen := huffman.BuildLengths(offFreq[:], deflatesym.MaxCodeLen)

	nlit := lastNonzero(litLen) + 1
	if nlit < 257 {
		nlit = 257
	}
	ndist := lastNonzero(offLen) + 1
	if ndist < 1 {
		ndist = 1
	}

	combined := make([]int, nlit+ndist)
	copy(combined, litLen[:nlit])
	copy(combined[nlit:], offLen[:ndist])

	tokensP := huffman.ScanLengths(combined)
	precodeFreq := huffman.PrecodeFrequencies(tokensP)
	precodeLen := huffman.BuildLengths(precodeFreq, deflatesym.PrecodeMaxLen)

	return dynamicCode{
		litLen: litLen, offLen: offLen,
		nlit: nlit, ndist: ndist,
		precodeTokens: tokensP, precodeLen: precodeLen,
	}
}

func lastNonzero(lengths []int) int {
	for i := len(lengths) - 1; i >= 0; i-- {
		if lengths[i] != 0 {
			return i
		}
	}
	return -1
}

// precodeDescriptionCost returns the bit cost of the dynamic block's code
// description: HLIT/HDIST/HCLEN header, the per-precode-symbol 3-bit
// lengths in RFC 1951's permuted transmission order, and the scanned
// token stream itself.
func (dc dynamicCode) precodeDescriptionCost() int {
	hclen := 4
	for i := deflatesym.NumPrecodeSyms - 1; i >= 4; i-- {
		if dc.precodeLen[deflatesym.CodeLengthOrder[i]] != 0 {
			hclen = i + 1
			break
		}
	}
	cost := 5 + 5 + 4 + hclen*3
	for _, t := range dc.precodeTokens {
		cost += dc.precodeLen[t.Sym] + int(t.Extra)
	}
	return cost
}

// costStored estimates a stored block's bit cost from the writer's
// byte-flushed position. It ignores any partial byte still sitting in the
// bit buffer (up to 7 bits of slop), which only matters for choosing
// between near-tied candidates — actual emission always pads correctly
// regardless of this estimate. A raw span longer than 65535 bytes needs
// more than one stored block, since LEN is a 16-bit field (emitStored
// splits on this same limit), so the estimate charges a 3-bit header and
// 32-bit LEN/NLEN pair per chunk rather than just one.
func costStored(rawLen int, bitPos uint) int {
	afterHeader := bitPos + 3
	pad := (8 - afterHeader%8) % 8
	chunks := rawLen/65535 + 1
	return 3 + int(pad) + 8*rawLen + chunks*32 + (chunks-1)*8
}

func costFixed(tokens []token) int {
	return 3 + tokenStreamCost(tokens, fixedLitLenLengths(), fixedOffsetLengths())
}

func costDynamic(tokens []token, dc dynamicCode) int {
	return 3 + dc.precodeDescriptionCost() + tokenStreamCost(tokens, dc.litLen, dc.offLen)
}

// emitBlock chooses the cheapest of stored/fixed/dynamic for this token
// stream (spec §4.5: "the compressor computes three alternatives... and
// emits whichever is smallest") and writes it to w.
func emitBlock(w *bitio.Writer, tokens []token, raw []byte, final bool) {
	dc := buildDynamicCode(tokens)
	cFixed := costFixed(tokens)
	cDynamic := costDynamic(tokens, dc)
	cStored := costStored(len(raw), uint(w.Len()*8))

	switch {
	case cStored <= cFixed && cStored <= cDynamic:
		emitStored(w, raw, final)
	case cDynamic < cFixed:
		emitDynamic(w, tokens, dc, final)
	default:
		emitFixed(w, tokens, final)
	}
}

func writeFinalType(w *bitio.Writer, final bool, btype uint32) {
	v := btype << 1
	if final {
		v |= 1
	}
	w.WriteBits(v, 3)
}

// emitStored writes raw as one or more stored blocks. LEN is a 16-bit
// field, so a raw span longer than 65535 bytes must split into several
// stored blocks; only the last one carries the caller's final-block bit.
func emitStored(w *bitio.Writer, raw []byte, final bool) {
	if len(raw) == 0 {
		emitStoredChunk(w, nil, final)
		return
	}
	for off := 0; off < len(raw); off += 65535 {
		end := off + 65535
		if end > len(raw) {
			end = len(raw)
		}
		emitStoredChunk(w, raw[off:end], final && end == len(raw))
	}
}

func emitStoredChunk(w *bitio.Writer, raw []byte, final bool) {
	writeFinalType(w, final, 0)
	w.AlignToByte()
	length := len(raw)
	w.WriteRawBytes([]byte{byte(length), byte(length >> 8), byte(^uint16(length)), byte(^uint16(length) >> 8)})
	w.WriteRawBytes(raw)
}

func emitFixed(w *bitio.Writer, tokens []token, final bool) {
	writeFinalType(w, final, 1)
	litLen := fixedLitLenLengths()
	offLen := fixedOffsetLengths()
	emitTokens(w, tokens, litLen, offLen)
}

func emitDynamic(w *bitio.Writer, tokens []token, dc dynamicCode, final bool) {
	writeFinalType(w, final, 2)

	hlit := dc.nlit - 257
	hdist := dc.ndist - 1
	hclen := 4
	for i := deflatesym.NumPrecodeSyms - 1; i >= 4; i-- {
		if dc.precodeLen[deflatesym.CodeLengthOrder[i]] != 0 {
			hclen = i + 1
			break
		}
	}
	w.WriteBits(uint32(hlit), 5)
	w.WriteBits(uint32(hdist), 5)
	w.WriteBits(uint32(hclen-4), 4)
	for i := 0; i < hclen; i++ {
		w.WriteBits(uint32(dc.precodeLen[deflatesym.CodeLengthOrder[i]]), 3)
	}

	precodeCodes := huffman.AssignCodewords(dc.precodeLen)
	for _, t := range dc.precodeTokens {
		n := dc.precodeLen[t.Sym]
		w.WriteBits(uint32(huffman.ReverseBits(precodeCodes[t.Sym], n)), uint(n))
		if t.Extra > 0 {
			w.WriteBits(t.ExtraVal, uint(t.Extra))
		}
	}

	emitTokens(w, tokens, dc.litLen, dc.offLen)
}

// emitTokens writes the literal/match token stream plus a trailing
// end-of-block marker using the given codeword-length assignment.
func emitTokens(w *bitio.Writer, tokens []token, litLen, offLen []int) {
	litCodes := huffman.AssignCodewords(litLen)
	offCodes := huffman.AssignCodewords(offLen)

	writeSym := func(codes []uint16, lens []int, sym int) {
		n := lens[sym]
		w.WriteBits(uint32(huffman.ReverseBits(codes[sym], n)), uint(n))
	}

	for _, tok := range tokens {
		if tok.length == 0 {
			writeSym(litCodes, litLen, int(tok.lit))
			continue
		}
		sym, extra, extraVal := deflatesym.LengthSymFor(tok.length)
		writeSym(litCodes, litLen, sym)
		if extra > 0 {
			w.WriteBits(extraVal, uint(extra))
		}
		osym, oextra, oextraVal := deflatesym.OffsetSymFor(tok.offset)
		writeSym(offCodes, offLen, osym)
		if oextra > 0 {
			w.WriteBits(oextraVal, uint(oextra))
		}
	}
	writeSym(litCodes, litLen, deflatesym.EndOfBlockSym)
}
