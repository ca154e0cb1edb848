package deflate

import (
	"math"

	"github.com/elliotnunn/deflate/internal/deflatesym"
)

// blockSplitter accumulates tokens for the block currently being built and
// decides, after every splitCheckWindow tokens, whether the recent tail
// looks different enough from the block's running symbol distribution to
// warrant starting a new block (spec §4.5, "block splitting").
//
// The heuristic is a simplified bit-cost KL divergence: it tracks a litlen
// frequency histogram for the whole block so far and, separately, one for
// just the last splitCheckWindow tokens, then compares the bit cost of
// coding the tail with its own histogram against coding it with the block's
// histogram. A large gap means the tail would shrink the file by being its
// own block, so it is split off.
type blockSplitter struct {
	level int

	litFreq [deflatesym.NumLitLenSyms]int
	tailLit [deflatesym.NumLitLenSyms]int
	tailLen int
}

const splitCheckWindow = 4096

// splitThreshold returns the minimum bits-per-tail-token divergence needed
// to justify a split at this level. Higher levels search harder for splits
// (smaller threshold) since they can afford the extra block overhead.
func splitThreshold(level int) float64 {
	switch {
	case level >= 8:
		return 0.05
	case level >= 4:
		return 0.10
	default:
		return 0.20
	}
}

func newBlockSplitter(level int) *blockSplitter {
	return &blockSplitter{level: level}
}

// reset clears the block-so-far histogram, called whenever a block is
// flushed so the next block's divergence is measured against its own
// distribution rather than the one just emitted.
func (s *blockSplitter) reset() {
	s.litFreq = [deflatesym.NumLitLenSyms]int{}
	s.tailLit = [deflatesym.NumLitLenSyms]int{}
	s.tailLen = 0
}

// add tallies one parsed token into the block-so-far and tail histograms.
func (s *blockSplitter) add(tok token, rawByte byte) {
	var sym int
	if tok.length == 0 {
		sym = int(tok.lit)
	} else {
		sym, _, _ = deflatesym.LengthSymFor(tok.length)
	}
	s.litFreq[sym]++
	s.tailLit[sym]++
	s.tailLen++
}

// shouldSplit reports whether the accumulated tail diverges enough from the
// block-so-far distribution to flush a block boundary now. It only
// evaluates every splitCheckWindow tokens, resetting the tail window after
// each check regardless of the outcome.
func (s *blockSplitter) shouldSplit() bool {
	if s.tailLen < splitCheckWindow {
		return false
	}
	divergence := s.tailDivergenceBits()
	s.tailLit = [deflatesym.NumLitLenSyms]int{}
	s.tailLen = 0
	return divergence/float64(splitCheckWindow) > splitThreshold(s.level)
}

// tailDivergenceBits estimates, in total bits, how much smaller the tail
// would code under its own frequency distribution than under the block's
// running distribution — an entropy-difference proxy for KL divergence at
// bit granularity (spec §4.5).
func (s *blockSplitter) tailDivergenceBits() float64 {
	blockTotal := 0
	for _, f := range s.litFreq {
		blockTotal += f
	}
	if blockTotal == 0 {
		return 0
	}
	var bits float64
	for sym, tf := range s.tailLit {
		if tf == 0 {
			continue
		}
		pBlock := float64(s.litFreq[sym]) / float64(blockTotal)
		pTail := float64(tf) / float64(s.tailLen)
		if pBlock <= 0 {
			pBlock = 1.0 / float64(blockTotal)
		}
		ratio := pTail / pBlock
		if ratio > 0 {
			bits += float64(tf) * math.Log2(ratio)
		}
	}
	return bits
}
