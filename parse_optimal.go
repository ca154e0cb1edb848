package deflate

import (
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/matchfinder"
)

// optimalWindow bounds how many positions the shortest-path solve considers
// at once, keeping the match-list and cost arrays small enough to revisit
// per block without materializing the whole input's candidate matches.
const optimalWindow = 1 << 16

// parseOptimal implements spec §4.5 levels 8-12: collect every
// distinct-length candidate match in a window using the binary-tree
// matchfinder, then solve a shortest-path problem over that window where
// literal and match edges are costed against an estimated Huffman code, and
// the cheapest total path from the window start to its end is the token
// sequence actually emitted.
//
// Every level runs at least two passes: the first costs edges against a
// fixed literal-biased estimate, the second re-parses against the code
// implied by the first pass's chosen path. Level 12 runs one further
// refinement pass on top.
func parseOptimal(data []byte, tune levelTuning, emit func(tok token, rawByte byte)) {
	t := matchfinder.NewBinTree(data, tune.chainDepth, tune.niceLen)
	passes := 2
	if tune.chainDepth >= 4096 {
		passes = 3
	}

	for start := 0; start < len(data); start += optimalWindow {
		end := start + optimalWindow
		if end > len(data) {
			end = len(data)
		}
		solveOptimalWindow(t, data, start, end, passes, emit)
	}
}

// edge is the cheapest way the DP found to reach a position: how many
// bytes it covers (1 for a literal, match length otherwise) and, for a
// match, its offset.
type edge struct {
	length int
	offset int
}

func solveOptimalWindow(t *matchfinder.BinTree, data []byte, start, end, passes int, emit func(tok token, rawByte byte)) {
	n := end - start
	matches := make([][]matchfinder.Match, n)
	for i := 0; i < n; i++ {
		p := start + i
		matches[i] = t.InsertAndSearch(p, windowStartFor(p))
	}

	litCost, lenCost, offCost := estimateLiteralCosts()
	var best []edge
	for pass := 0; pass < passes; pass++ {
		cost := make([]int, n+1)
		best = make([]edge, n+1)
		for i := 1; i <= n; i++ {
			cost[i] = -1
		}
		for i := 0; i < n; i++ {
			if cost[i] < 0 {
				continue
			}
			// literal edge
			c := cost[i] + litCost(data[start+i])
			if cost[i+1] < 0 || c < cost[i+1] {
				cost[i+1] = c
				best[i+1] = edge{length: 1}
			}
			// match edges: only the longest match needs to be a candidate
			// destination for each distinct length class, since DP already
			// finds the cheapest way to reach every shorter prefix.
			for _, m := range matches[i] {
				if i+m.Length > n {
					continue
				}
				sym, extra, _ := deflatesym.LengthSymFor(m.Length)
				osym, oextra, _ := deflatesym.OffsetSymFor(m.Offset)
				c := cost[i] + lenCost(sym) + int(extra) + offCost(osym) + int(oextra)
				if cost[i+m.Length] < 0 || c < cost[i+m.Length] {
					cost[i+m.Length] = c
					best[i+m.Length] = edge{length: m.Length, offset: m.Offset}
				}
			}
		}
		if pass+1 < passes {
			litCost, lenCost, offCost = estimateFromPath(data, start, n, best)
		}
	}

	// Walk the chosen path backward to recover the token sequence, then
	// emit it forward.
	var path []edge
	for i := n; i > 0; i -= best[i].length {
		path = append(path, best[i])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	pos := start
	for _, e := range path {
		if e.length == 1 && e.offset == 0 {
			emit(litToken(data[pos]), data[pos])
		} else {
			emit(matchToken(e.length, e.offset), 0)
		}
		pos += e.length
	}
}

// estimateLiteralCosts returns a fixed, conservative per-symbol bit-cost
// estimate (roughly what a balanced Huffman code assigns) used for the
// first DP pass, before any real code has been built for this block.
func estimateLiteralCosts() (lit func(byte) int, lenSym func(int) int, offSym func(int) int) {
	lit = func(byte) int { return 8 }
	lenSym = func(sym int) int {
		if sym < 265 {
			return 7
		}
		return 8
	}
	offSym = func(int) int { return 5 }
	return
}

// estimateFromPath builds a per-symbol cost estimate from the frequencies
// along the first pass's chosen path, used to re-cost edges on a
// refinement pass (spec §4.5: "the second re-parses against the
// estimate").
func estimateFromPath(data []byte, start, n int, best []edge) (lit func(byte) int, lenSym func(int) int, offSym func(int) int) {
	var litFreq [256]int
	var lenFreq [29]int
	var offFreq [30]int
	for i := n; i > 0; i -= best[i].length {
		e := best[i]
		if e.length == 1 && e.offset == 0 {
			litFreq[data[start+i-1]]++
		} else {
			sym, _, _ := deflatesym.LengthSymFor(e.length)
			osym, _, _ := deflatesym.OffsetSymFor(e.offset)
			lenFreq[sym-257]++
			offFreq[osym]++
		}
	}
	litBits := bitsFromFreq(litFreq[:])
	lenBits := bitsFromFreq(lenFreq[:])
	offBits := bitsFromFreq(offFreq[:])

	lit = func(b byte) int { return litBits[b] }
	lenSym = func(sym int) int { return lenBits[sym-257] }
	offSym = func(sym int) int { return offBits[sym] }
	return
}

// bitsFromFreq derives a rough per-symbol bit cost (-log2 probability,
// floored to 1) from a frequency histogram, used only to rank DP edges on
// the refinement pass; the real codeword lengths are built later by
// huffman.BuildLengths against the actual token stream.
func bitsFromFreq(freq []int) []int {
	total := 0
	for _, f := range freq {
		total += f
	}
	bits := make([]int, len(freq))
	for i, f := range freq {
		if f == 0 || total == 0 {
			bits[i] = 12
			continue
		}
		b := bitLog2(total / f)
		if b < 1 {
			b = 1
		}
		bits[i] = b
	}
	return bits
}

func bitLog2(x int) int {
	n := 0
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}
