package deflate

import (
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/matchfinder"
)

// levelTuning holds the per-level chain depth, nice match length and
// parsing strategy; the per-level block-splitting thresholds live in
// splitThreshold (blocksplit.go). The exact numbers are empirical (spec §9 open question);
// these follow the same shape as zlib's compress.c table, scaled to the
// 0-12 level range this codec exposes.
type levelTuning struct {
	chainDepth int
	niceLen    int
	lazy       bool // levels 4-7: also search at p+1 before committing
	optimal    bool // levels 8-12: near-optimal parse
}

var levelTable = [13]levelTuning{
	0:  {},
	1:  {chainDepth: 4, niceLen: 8},
	2:  {chainDepth: 8, niceLen: 16},
	3:  {chainDepth: 16, niceLen: 32},
	4:  {chainDepth: 16, niceLen: 16, lazy: true},
	5:  {chainDepth: 32, niceLen: 32, lazy: true},
	6:  {chainDepth: 64, niceLen: 64, lazy: true},
	7:  {chainDepth: 128, niceLen: 128, lazy: true},
	8:  {chainDepth: 256, niceLen: 258, optimal: true},
	9:  {chainDepth: 512, niceLen: 258, optimal: true},
	10: {chainDepth: 1024, niceLen: 258, optimal: true},
	11: {chainDepth: 2048, niceLen: 258, optimal: true},
	12: {chainDepth: 4096, niceLen: 258, optimal: true},
}

// parseGreedy implements spec §4.5 levels 1-3: at each position take the
// longest match the matchfinder can find; if none reaches the minimum
// match length, emit a literal and advance by one.
func parseGreedy(data []byte, tune levelTuning, emit func(tok token, rawByte byte)) {
	w := matchfinder.New(data, tune.chainDepth, tune.niceLen)
	p := 0
	for p < len(data) {
		var m matchfinder.Match
		if p+deflatesym.MinMatchLen <= len(data) {
			m = w.Search(p, windowStartFor(p))
		}
		w.Insert(p)
		if m.Length >= deflatesym.MinMatchLen {
			emit(matchToken(m.Length, m.Offset), 0)
			for i := 1; i < m.Length && p+i < len(data); i++ {
				w.Insert(p + i)
			}
			p += m.Length
			continue
		}
		emit(litToken(data[p]), data[p])
		p++
	}
}

// windowStartFor returns the earliest position still inside the DEFLATE
// 32768-byte sliding window when the current position is p.
func windowStartFor(p int) int {
	if p <= deflatesym.WindowSize {
		return 0
	}
	return p - deflatesym.WindowSize
}
