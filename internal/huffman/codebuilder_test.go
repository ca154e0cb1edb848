package huffman

import (
	"math/rand/v2"
	"testing"
)

// literalEntries builds the SymbolEntry list for a tiny literal alphabet
// of size n, used to check that codewords assigned by
// AssignCodewords actually decode back to the symbol they were built for.
func literalEntries(n int) []SymbolEntry {
	entries := make([]SymbolEntry, n)
	for i := range entries {
		entries[i] = SymbolEntry{IsLiteral: true, Base: uint32(i)}
	}
	return entries
}

func TestBuildLengthsRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 20; trial++ {
		n := 2 + r.IntN(30)
		freqs := make([]int, n)
		for i := range freqs {
			if r.IntN(4) != 0 {
				freqs[i] = 1 + r.IntN(500)
			}
		}
		hasAny := false
		for _, f := range freqs {
			if f > 0 {
				hasAny = true
			}
		}
		if !hasAny {
			freqs[0] = 1
		}

		lengths := BuildLengths(freqs, 15)
		codes := AssignCodewords(lengths)

		table, err := Build(lengths, literalEntries(n), 9, TolerateIncomplete)
		if err != nil {
			t.Fatalf("trial %d: Build failed: %v", trial, err)
		}

		for sym, l := range lengths {
			if l == 0 {
				continue
			}
			rev := ReverseBits(codes[sym], l)
			// Lookup peeks from the low bits of a 64-bit word; the
			// reversed codeword sits in the low bits with zeros above it,
			// and since the code is prefix-free no other codeword can
			// match those leading bits.
			bitBuf := uint64(rev)
			e := table.Lookup(bitBuf)
			if EntryNumBits(e) != uint(l) {
				t.Fatalf("trial %d sym %d: decoded numBits %d, want %d", trial, sym, EntryNumBits(e), l)
			}
			if int(EntryPayload(e)) != sym {
				t.Fatalf("trial %d sym %d: decoded payload %d, want %d", trial, sym, EntryPayload(e), sym)
			}
		}
	}
}

func TestBuildLengthsRespectsCap(t *testing.T) {
	// One dominant symbol plus 99 rare ones: left uncapped, the rare
	// symbols land at depths 7 and 8, so the 7-bit cap has to rebalance
	// them. 100 symbols still fit a 7-bit code (at most 128 codewords).
	n := 100
	freqs := make([]int, n)
	for i := range freqs {
		freqs[i] = 1
	}
	freqs[0] = 100000
	lengths := BuildLengths(freqs, 7)
	for sym, l := range lengths {
		if l > 7 {
			t.Fatalf("sym %d has length %d, want <= 7", sym, l)
		}
	}
	// Kraft sum must equal exactly 1 (complete code) for a full alphabet
	// with every symbol present.
	var kraftNum, kraftDen uint64 = 0, 1 << 7
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		kraftNum += kraftDen >> uint(l)
	}
	if kraftNum != kraftDen {
		t.Fatalf("Kraft sum numerator = %d, want %d (complete code)", kraftNum, kraftDen)
	}
}
