package deflate

import (
	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/matchfinder"
)

// parseLazy implements spec §4.5 levels 4-7: like greedy, but whenever a
// match is found at p, also search at p+1; if that match is strictly
// longer, emit a literal at p and take the p+1 match instead (deferring the
// decision by one position catches cases where shifting the match start
// finds a longer run).
//
// inserted tracks how many leading positions have already been inserted
// into the matchfinder (0..inserted-1). insertBefore(pos) brings that up to
// pos exactly, so Search(pos) only ever sees strictly earlier positions and
// the lazy lookahead at p+1 never inserts a position twice.
func parseLazy(data []byte, tune levelTuning, emit func(tok token, rawByte byte)) {
	w := matchfinder.New(data, tune.chainDepth, tune.niceLen)
	inserted := 0
	insertBefore := func(pos int) {
		for ; inserted < pos && inserted < len(data); inserted++ {
			w.Insert(inserted)
		}
	}

	p := 0
	var pending matchfinder.Match
	havePending := false

	for p < len(data) {
		insertBefore(p)

		var cur matchfinder.Match
		if havePending {
			cur = pending
			havePending = false
		} else if p+deflatesym.MinMatchLen <= len(data) {
			cur = w.Search(p, windowStartFor(p))
		}

		if cur.Length < deflatesym.MinMatchLen {
			emit(litToken(data[p]), data[p])
			p++
			continue
		}

		if p+1 < len(data) && cur.Length < tune.niceLen && p+1+deflatesym.MinMatchLen <= len(data) {
			insertBefore(p + 1)
			next := w.Search(p+1, windowStartFor(p+1))
			if next.Length > cur.Length {
				emit(litToken(data[p]), data[p])
				p++
				pending = next
				havePending = true
				continue
			}
		}

		emit(matchToken(cur.Length, cur.Offset), 0)
		insertBefore(p + cur.Length)
		p += cur.Length
	}
}
