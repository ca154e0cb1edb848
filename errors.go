package deflate

import "errors"

// Result-code taxonomy surfaced across the public API (spec §6, §7).
var (
	// ErrBadData means the stream violates RFC 1951/1950/1952 or one of
	// this codec's safety invariants: an over-subscribed Huffman code, a
	// stored-block length whose complement doesn't match, an
	// out-of-range match offset, a truncated block, an over-read at end
	// of stream, or a wrapper header/trailer mismatch.
	ErrBadData = errors.New("deflate: bad data")

	// ErrInsufficientSpace means decompression would write more bytes
	// than the caller's output buffer holds.
	ErrInsufficientSpace = errors.New("deflate: insufficient output space")

	// ErrShortOutput means the caller asked for an exact-size decompress
	// and the stream produced fewer bytes than stated.
	ErrShortOutput = errors.New("deflate: short output")
)
