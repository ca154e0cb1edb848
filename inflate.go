package deflate

import (
	"github.com/elliotnunn/deflate/internal/bitio"
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/huffman"
)

// Decompressor is the reusable decode handle (spec §3, "Decompressor
// handle"). Create one with NewDecompressor and reuse it across any number
// of Decompress calls; it is not safe for concurrent use by multiple
// goroutines (spec §5).
type Decompressor struct {
	lengths    [deflatesym.NumLitLenSyms + deflatesym.NumOffsetSyms]int
	precodeLen [deflatesym.NumPrecodeSyms]int
	tableCache staticTableCache
}

// NewDecompressor allocates a decompressor handle.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// Decompress decodes a raw DEFLATE stream (RFC 1951) from in into out.
// out must be large enough to hold the entire decompressed output; n
// reports how many bytes were written and, on success, consumed reports how
// many input bytes the DEFLATE stream occupied (bytes the bit reader loaded
// ahead but did not use are not counted). It returns ErrBadData,
// ErrInsufficientSpace, or nil.
func (d *Decompressor) Decompress(out, in []byte) (n int, consumed int, err error) {
	br := bitio.NewReader(in)
	outPos := 0

	for {
		br.Refill()
		if br.BitsValid() < 3 {
			return outPos, br.Pos(), ErrBadData
		}
		final := br.Peek(1) == 1
		br.Consume(1)
		btype := br.Peek(2)
		br.Consume(2)

		switch btype {
		case 0:
			outPos, err = decodeStored(br, out, outPos)
		case 1:
			lit, off := huffman.StaticTables()
			outPos, err = decodeHuffmanBlock(br, out, outPos, lit, off)
		case 2:
			lit, off, derr := d.readDynamicTables(br)
			if derr != nil {
				return outPos, br.Pos(), derr
			}
			outPos, err = decodeHuffmanBlock(br, out, outPos, lit, off)
		default: // BTYPE == 3, reserved
			return outPos, br.Pos(), ErrBadData
		}
		if err != nil {
			return outPos, br.Pos(), err
		}
		if final {
			break
		}
	}

	// spec §4.3: "overread count must not exceed bits_valid/8 at end of
	// stream" — otherwise a malformed dynamic block could decode using
	// phantom zero bytes and never actually terminate on real input.
	if br.Overread() > int(br.BitsValid())/8 {
		return outPos, br.Pos(), ErrBadData
	}

	return outPos, br.Pos() - int(br.BitsValid()/8), nil
}

func decodeStored(br *bitio.Reader, out []byte, outPos int) (int, error) {
	br.AlignToByte()
	hdr := br.RawBytes(4)
	if len(hdr) < 4 {
		return outPos, ErrBadData
	}
	length := int(hdr[0]) | int(hdr[1])<<8
	nlength := int(hdr[2]) | int(hdr[3])<<8
	if uint16(nlength) != uint16(^uint16(length)) {
		return outPos, ErrBadData
	}
	if outPos+length > len(out) {
		return outPos, ErrInsufficientSpace
	}
	if br.Remaining() < length {
		return outPos, ErrBadData
	}
	data := br.RawBytes(length)
	copy(out[outPos:], data)
	return outPos + length, nil
}

// readDynamicTables parses a BTYPE=10 block header (spec §4.3) and builds
// the litlen and offset decode tables for the block that follows.
func (d *Decompressor) readDynamicTables(br *bitio.Reader) (litlen, offset *huffman.Table, err error) {
	br.Refill()
	if br.BitsValid() < 5+5+4 {
		return nil, nil, ErrBadData
	}
	nlit := int(br.Peek(5)) + 257
	br.Consume(5)
	ndist := int(br.Peek(5)) + 1
	br.Consume(5)
	nclen := int(br.Peek(4)) + 4
	br.Consume(4)

	for i := range d.precodeLen {
		d.precodeLen[i] = 0
	}
	for i := 0; i < nclen; i++ {
		br.Refill()
		if br.BitsValid() < 3 {
			return nil, nil, ErrBadData
		}
		d.precodeLen[deflatesym.CodeLengthOrder[i]] = int(br.Peek(3))
		br.Consume(3)
	}

	precodeTable, err := huffman.Build(d.precodeLen[:], huffman.PrecodeEntries(), huffman.PrecodeTableBits, huffman.RejectIncomplete)
	if err != nil {
		return nil, nil, ErrBadData
	}

	total := nlit + ndist
	if total > len(d.lengths) {
		return nil, nil, ErrBadData
	}
	for i := 0; i < total; {
		br.Refill()
		sym, ok := decodeOne(br, precodeTable)
		if !ok {
			return nil, nil, ErrBadData
		}
		switch {
		case sym < 16:
			d.lengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, ErrBadData
			}
			br.Refill()
			if br.BitsValid() < 2 {
				return nil, nil, ErrBadData
			}
			rep := 3 + int(br.Peek(2))
			br.Consume(2)
			if i+rep > total {
				return nil, nil, ErrBadData
			}
			prev := d.lengths[i-1]
			for j := 0; j < rep; j++ {
				d.lengths[i] = prev
				i++
			}
		case sym == 17:
			br.Refill()
			if br.BitsValid() < 3 {
				return nil, nil, ErrBadData
			}
			rep := 3 + int(br.Peek(3))
			br.Consume(3)
			if i+rep > total {
				return nil, nil, ErrBadData
			}
			for j := 0; j < rep; j++ {
				d.lengths[i] = 0
				i++
			}
		case sym == 18:
			br.Refill()
			if br.BitsValid() < 7 {
				return nil, nil, ErrBadData
			}
			rep := 11 + int(br.Peek(7))
			br.Consume(7)
			if i+rep > total {
				return nil, nil, ErrBadData
			}
			for j := 0; j < rep; j++ {
				d.lengths[i] = 0
				i++
			}
		default:
			return nil, nil, ErrBadData
		}
	}

	if cachedLit, cachedOff, ok := d.tableCache.lookup(d.lengths[:total]); ok {
		return cachedLit, cachedOff, nil
	}

	litlen, err = huffman.Build(d.lengths[:nlit], huffman.LitLenEntries(), huffman.LitLenTableBits, huffman.TolerateIncomplete)
	if err != nil {
		return nil, nil, ErrBadData
	}
	offset, err = huffman.Build(d.lengths[nlit:total], huffman.OffsetEntries(), huffman.OffsetTableBits, huffman.TolerateIncomplete)
	if err != nil {
		return nil, nil, ErrBadData
	}
	d.tableCache.store(d.lengths[:total], litlen, offset)
	return litlen, offset, nil
}

// decodeOne decodes a single symbol from a precode-style table where every
// entry is a plain literal value (no extra bits), refilling as needed. Used
// only for the precode table itself, which is small enough to never need
// the fast-loop machinery.
func decodeOne(br *bitio.Reader, t *huffman.Table) (int, bool) {
	for i := 0; i < 3; i++ { // precode symbols need at most PrecodeMaxLen=7 bits; one refill always suffices, loop guards empty-table decode
		if br.BitsValid() == 0 {
			return 0, false
		}
		e := t.Lookup(br.Peek64())
		n := huffman.EntryNumBits(e)
		if n == 0 {
			return 0, false
		}
		if uint(n) > br.BitsValid() {
			br.Refill()
			continue
		}
		br.Consume(uint(n))
		return int(huffman.EntryPayload(e)), true
	}
	return 0, false
}
