package deflate

import "github.com/elliotnunn/deflate/internal/bitio"

// Compressor is the reusable encode handle (spec §3, "Compressor handle").
// Create one with NewCompressor for a chosen level and reuse it across any
// number of Compress calls; it is not safe for concurrent use by multiple
// goroutines (spec §5).
type Compressor struct {
	level int
	tune  levelTuning
}

// NewCompressor allocates a compressor handle at the given level, which
// must be in [0, 12]. Level 0 stores input verbatim; higher levels trade
// CPU time for ratio per levelTable's chain depth and nice-length schedule.
func NewCompressor(level int) *Compressor {
	if level < 0 {
		level = 0
	}
	if level > 12 {
		level = 12
	}
	return &Compressor{level: level, tune: levelTable[level]}
}

// CompressBound returns a safe upper bound on the compressed size of an
// input of n bytes: worst case is a run of stored blocks, each paying a
// 5-byte header per 65535-byte chunk, plus the 3-bit final-block-type
// overhead of at least one block.
func CompressBound(n int) int {
	blocks := n/65535 + 1
	return n + blocks*5 + 1
}

// Compress appends the raw DEFLATE encoding (RFC 1951) of src to dst and
// returns the result.
func (c *Compressor) Compress(dst, src []byte) []byte {
	w := bitio.NewWriter(dst)

	if c.level == 0 || len(src) == 0 {
		emitStoredBlocks(w, src)
		return finish(w)
	}

	split := newBlockSplitter(c.level)
	var tokens []token
	blockStart, pos := 0, 0
	flush := func(final bool) {
		emitBlock(w, tokens, src[blockStart:pos], final)
		tokens = tokens[:0]
		blockStart = pos
		split.reset()
	}

	emit := func(tok token, rawByte byte) {
		split.add(tok, rawByte)
		tokens = append(tokens, tok)
		if tok.length == 0 {
			pos++
		} else {
			pos += tok.length
		}
		if split.shouldSplit() {
			flush(false)
		}
	}

	switch {
	case c.tune.optimal:
		parseOptimal(src, c.tune, emit)
	case c.tune.lazy:
		parseLazy(src, c.tune, emit)
	default:
		parseGreedy(src, c.tune, emit)
	}
	flush(true)

	return finish(w)
}

func finish(w *bitio.Writer) []byte {
	w.AlignToByte()
	return w.Bytes()
}

// emitStoredBlocks writes src as a sequence of stored blocks (spec §4.5:
// "level 0 skips parsing entirely and emits stored blocks"). emitStored
// already splits on the 65535-byte length-field limit.
func emitStoredBlocks(w *bitio.Writer, src []byte) {
	emitStored(w, src, true)
}
