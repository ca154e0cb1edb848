package huffman

import "container/heap"

// BuildLengths computes canonical Huffman codeword lengths for freqs
// (indexed by symbol), capped at maxLen, per spec §4.5: "build canonical
// Huffman codes from symbol frequencies with a length cap of 15 for
// litlen/offset and 7 for precode... imposed by a post-processing step that
// walks overlong codewords and re-balances by lengthening shorter ones."
//
// The cap is enforced with the classic zlib overflow-correction technique:
// build an ordinary (unbounded-depth) Huffman tree, clip any depth beyond
// maxLen into the maxLen bucket, then repeatedly borrow one symbol from the
// deepest bucket still under the cap to restore the Kraft equality the
// clipping broke. The resulting depth histogram is then handed back out to
// symbols in descending-frequency order, so the most common symbols keep
// the shortest codes the clipped histogram allows.
func BuildLengths(freqs []int, maxLen int) []int {
	lengths := make([]int, len(freqs))

	var present []freqEntry
	for sym, f := range freqs {
		if f > 0 {
			present = append(present, freqEntry{sym: sym, freq: f})
		}
	}
	switch len(present) {
	case 0:
		return lengths
	case 1:
		lengths[present[0].sym] = 1
		return lengths
	}

	depths := huffmanDepths(present)
	for i := range present {
		present[i].depth = depths[i]
	}

	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}
	counts := make([]int, maxDepth+2)
	for _, d := range depths {
		counts[d]++
	}
	if maxDepth > maxLen {
		overflow := 0
		for l := maxDepth; l > maxLen; l-- {
			overflow += counts[l]
			counts[l] = 0
		}
		counts[maxLen] += overflow
		for overflow > 0 {
			bits := maxLen - 1
			for counts[bits] == 0 {
				bits--
			}
			counts[bits]--
			counts[bits+1] += 2
			counts[maxLen]--
			overflow -= 2
		}
	}

	// Most frequent symbols get the shortest lengths the (now
	// Kraft-valid) histogram allows. Ties broken by original depth then
	// symbol index, for determinism.
	sortByFreqDesc(present)
	length := 1
	for counts[length] == 0 {
		length++
	}
	remaining := counts[length]
	for _, s := range present {
		for remaining == 0 {
			length++
			remaining = counts[length]
		}
		lengths[s.sym] = length
		remaining--
	}
	return lengths
}

// freqEntry tracks one present symbol through length assignment: its
// symbol index, frequency, and (once computed) unbounded Huffman depth.
type freqEntry struct {
	sym, freq, depth int
}

func sortByFreqDesc(s []freqEntry) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func less(a, b freqEntry) bool {
	if a.freq != b.freq {
		return a.freq > b.freq
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.sym < b.sym
}

type huffNode struct {
	freq        int
	sym         int // -1 for internal nodes
	left, right *huffNode
}

type nodeHeap []*huffNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// huffmanDepths runs the textbook Huffman merge algorithm over present
// (already filtered to freq > 0) and returns each entry's unbounded tree
// depth, indexed by position in present (not by symbol id).
func huffmanDepths(present []freqEntry) []int {
	h := &nodeHeap{}
	heap.Init(h)
	leaves := make([]*huffNode, len(present))
	for i, p := range present {
		n := &huffNode{freq: p.freq, sym: i}
		leaves[i] = n
		heap.Push(h, n)
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*huffNode)
		b := heap.Pop(h).(*huffNode)
		heap.Push(h, &huffNode{freq: a.freq + b.freq, sym: -1, left: a, right: b})
	}
	root := heap.Pop(h).(*huffNode)

	depths := make([]int, len(present))
	var walk func(n *huffNode, depth int)
	walk = func(n *huffNode, depth int) {
		if n.sym >= 0 {
			if depth == 0 {
				depth = 1
			}
			depths[n.sym] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)
	return depths
}

// AssignCodewords derives canonical codeword values from codeword lengths,
// the same nextCode construction Build uses to decode them. The
// returned value at index sym is the codeword in MSB-first bit order as
// RFC 1951 section 3.2.2 defines it; ReverseBits converts it to the
// bit-buffer's LSB-first packing order for the writer.
func AssignCodewords(lengths []int) []uint16 {
	var count [deflateMaxCodeLen + 1]int
	max := 0
	for _, n := range lengths {
		if n > 0 {
			count[n]++
			if n > max {
				max = n
			}
		}
	}
	var nextCode [deflateMaxCodeLen + 1]int
	code := 0
	for length := 1; length <= max; length++ {
		code <<= 1
		nextCode[length] = code
		code += count[length]
	}
	codes := make([]uint16, len(lengths))
	for sym, n := range lengths {
		if n == 0 {
			continue
		}
		codes[sym] = uint16(nextCode[n])
		nextCode[n]++
	}
	return codes
}

// ReverseBits reverses the low n bits of v, converting a canonical MSB-first
// codeword into the bit pattern the LSB-first bit buffer expects to write
// or has read.
func ReverseBits(v uint16, n int) uint16 {
	return uint16(reverseBits(uint32(v), n))
}
