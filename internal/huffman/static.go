package huffman

import (
	"sync"

	"github.com/elliotnunn/deflate/internal/deflatesym"
)

var (
	staticOnce   sync.Once
	staticLitLen *Table
	staticOffset *Table
)

// StaticTables returns the RFC-1951-fixed litlen and offset decode tables
// (BTYPE=01), built once per process, matching the decompressor handle's
// "static tables already materialized" optimization flag (spec §3).
func StaticTables() (litlen, offset *Table) {
	staticOnce.Do(func() {
		var lens [deflatesym.NumLitLenSyms]int
		for i := 0; i < 144; i++ {
			lens[i] = 8
		}
		for i := 144; i < 256; i++ {
			lens[i] = 9
		}
		for i := 256; i < 280; i++ {
			lens[i] = 7
		}
		for i := 280; i < deflatesym.NumLitLenSyms; i++ {
			lens[i] = 8
		}
		t, err := Build(lens[:], LitLenEntries(), LitLenTableBits, TrustedFixed)
		if err != nil {
			panic("deflate: internal error building fixed litlen table: " + err.Error())
		}
		staticLitLen = t

		var dlens [deflatesym.NumOffsetSyms]int
		for i := range dlens {
			dlens[i] = 5
		}
		dt, err := Build(dlens[:], OffsetEntries(), OffsetTableBits, TrustedFixed)
		if err != nil {
			panic("deflate: internal error building fixed offset table: " + err.Error())
		}
		staticOffset = dt
	})
	return staticLitLen, staticOffset
}
