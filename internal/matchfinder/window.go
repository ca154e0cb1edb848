// Package matchfinder locates previous occurrences of the byte sequence at
// the compressor's current position, within the DEFLATE 32768-byte window
// (spec §4.4).
package matchfinder

import (
	"github.com/cespare/xxhash/v2"

	"github.com/elliotnunn/deflate/internal/bitio"
	"github.com/elliotnunn/deflate/internal/deflatesym"
)

// noPos marks an empty hash bucket or chain terminator. Valid window
// positions are always >= 0, so -1 can never collide with a real one.
const noPos int32 = -1

const (
	hashBits = 16
	hashSize = 1 << hashBits
	hashMask = hashSize - 1
)

// Window holds the hash-chain match-finder state for one compression
// stream. Positions are absolute offsets into data and are never rebased,
// so they stay inside int32 range only for inputs shorter than 2^31 bytes.
type Window struct {
	head  [hashSize]int32 // most recent position for each hash bucket
	chain []int32         // chain[p mod cap] -> previous position with same hash
	data  []byte          // full uncompressed history seen so far (caller-owned slice backing this matchfinder)
	depth int             // max chain nodes to visit per search
	nice  int             // match length that stops the search early
}

// New creates a match finder over data (the full plaintext being
// compressed), configured with the chain depth and "nice length" early-exit
// threshold appropriate for a compression level (spec §4.5).
func New(data []byte, depth, nice int) *Window {
	w := &Window{
		chain: make([]int32, deflatesym.WindowSize),
		data:  data,
		depth: depth,
		nice:  nice,
	}
	for i := range w.head {
		w.head[i] = noPos
	}
	for i := range w.chain {
		w.chain[i] = noPos
	}
	return w
}

// hash4 folds a well-distributed 64-bit hash of the 4 bytes at data[p]
// down to the bucket width, the same "fast non-cryptographic hash, folded
// to table width" approach the teacher uses xxhash for elsewhere.
func hash4(data []byte, p int) uint32 {
	return uint32(xxhash.Sum64(data[p:p+4])) & hashMask
}

// Insert records position p (a stream-absolute offset into w.data) in the
// hash chain, so later Insert/Search calls at later positions can find it.
func (w *Window) Insert(p int) {
	if p+4 > len(w.data) {
		return
	}
	h := hash4(w.data, p)
	w.chain[p%deflatesym.WindowSize] = w.head[h]
	w.head[h] = int32(p)
}

// Match is one candidate (length, distance-back) pair found at a position.
type Match struct {
	Length int
	Offset int
}

// Search walks the hash chain for position p looking for the longest match
// among the most recent w.depth candidates sharing p's 4-byte hash,
// stopping early once a match of w.nice bytes is found. windowStart is the
// earliest position still inside the sliding window (positions before it
// are out of range for a valid offset).
func (w *Window) Search(p, windowStart int) (best Match) {
	if p+4 > len(w.data) {
		return Match{}
	}
	h := hash4(w.data, p)
	cand := w.head[h]
	maxLen := len(w.data) - p
	if maxLen > deflatesym.MaxMatchLen {
		maxLen = deflatesym.MaxMatchLen
	}

	for steps := 0; cand != noPos && steps < w.depth; steps++ {
		c := int(cand)
		if c < windowStart {
			break
		}
		// c < p always holds (chains only link to earlier positions), so
		// data[c:] has at least as many bytes remaining as data[p:] — safe
		// for LzExtend's "both slices have >= max bytes" contract.
		n := bitio.LzExtend(w.data[p:], w.data[c:], maxLen)
		if n > best.Length {
			best = Match{Length: n, Offset: p - c}
			if n >= w.nice || n >= maxLen {
				break
			}
		}
		cand = w.chain[c%deflatesym.WindowSize]
	}
	return best
}
