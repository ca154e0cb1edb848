package matchfinder

import (
	"github.com/elliotnunn/deflate/internal/bitio"
	"github.com/elliotnunn/deflate/internal/deflatesym"
)

// btNode is one position's two subtree pointers in a BinTree, keyed by
// lexicographic comparison of the suffixes starting at each position.
type btNode struct {
	left, right int32
}

// BinTree is the binary-tree match finder for the near-optimal levels
// (spec §4.4, §4.5 levels 8-12). Unlike Window's hash chain, which only
// ever reports the single longest match at a position, BinTree reports
// every distinct match length found on the way down the tree, letting the
// optimal parser's DP weigh a shorter match against a cheaper offset.
type BinTree struct {
	head  [hashSize]int32
	nodes []btNode // nodes[p % deflatesym.WindowSize] is position p's subtree
	data  []byte
	depth int
	nice  int
}

// NewBinTree creates a binary-tree match finder over data, with the same
// depth/nice-length tuning meaning as Window (spec §4.5).
func NewBinTree(data []byte, depth, nice int) *BinTree {
	t := &BinTree{
		nodes: make([]btNode, deflatesym.WindowSize),
		data:  data,
		depth: depth,
		nice:  nice,
	}
	for i := range t.head {
		t.head[i] = noPos
	}
	for i := range t.nodes {
		t.nodes[i] = btNode{left: noPos, right: noPos}
	}
	return t
}

// InsertAndSearch inserts position p into the tree and returns every
// distinct-length match found along the descent, in ascending length
// order. This is the classic binary-tree matchfinder's combined
// insert-while-searching walk (LZMA's bt4, and zlib's deflate_slow tree
// variant): walking toward where p belongs in the tree naturally visits
// candidates in decreasing common-prefix order, and splicing p in at that
// point is what keeps the next call's walk no deeper than necessary.
// windowStart is the earliest position still inside the sliding window.
func (t *BinTree) InsertAndSearch(p, windowStart int) []Match {
	if p+4 > len(t.data) {
		return nil
	}
	h := hash4(t.data, p)
	cur := t.head[h]
	t.head[h] = int32(p)

	maxLen := len(t.data) - p
	if maxLen > deflatesym.MaxMatchLen {
		maxLen = deflatesym.MaxMatchLen
	}

	slot := p % deflatesym.WindowSize
	leftPtr := &t.nodes[slot].left
	rightPtr := &t.nodes[slot].right
	leftLen, rightLen := 0, 0

	var matches []Match
	bestLen := deflatesym.MinMatchLen - 1

	for steps := 0; cur != noPos && steps < t.depth; steps++ {
		c := int(cur)
		if c < windowStart {
			// c's tree slot has since been overwritten by a position that
			// wrapped back to the same index (cap == deflatesym.WindowSize),
			// so its left/right fields no longer describe c; stop rather
			// than read the wrong node's children.
			break
		}
		cslot := c % deflatesym.WindowSize

		n := min(leftLen, rightLen)
		if n < maxLen {
			n += bitio.LzExtend(t.data[p+n:], t.data[c+n:], maxLen-n)
		}
		if n > bestLen {
			bestLen = n
			matches = append(matches, Match{Length: n, Offset: p - c})
			if n >= t.nice || n >= maxLen {
				*leftPtr = t.nodes[cslot].left
				*rightPtr = t.nodes[cslot].right
				return matches
			}
		}

		if p+n >= len(t.data) {
			break
		}
		if t.data[c+n] < t.data[p+n] {
			*leftPtr = int32(c)
			leftPtr = &t.nodes[cslot].right
			leftLen = n
			cur = t.nodes[cslot].right
		} else {
			*rightPtr = int32(c)
			rightPtr = &t.nodes[cslot].left
			rightLen = n
			cur = t.nodes[cslot].left
		}
	}
	*leftPtr = noPos
	*rightPtr = noPos
	return matches
}
