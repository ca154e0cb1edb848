package deflate

import (
	"hash/maphash"

	tinylfu "github.com/dgryski/go-tinylfu"

	"github.com/elliotnunn/deflate/internal/deflatesym"
	"github.com/elliotnunn/deflate/internal/huffman"
)

// tableCacheKey is the full litlen+offset codeword-length sequence of a
// dynamic block, used verbatim as a cache key. Streams with many small
// blocks (the common case for streaming encoders) frequently repeat the
// same code tables block after block; caching the built Table avoids
// rebuilding the same canonical Huffman table from scratch each time.
type tableCacheKey [deflatesym.NumLitLenSyms + deflatesym.NumOffsetSyms]byte

type cachedTables struct {
	litlen *huffman.Table
	offset *huffman.Table
}

var tableCacheSeed = maphash.MakeSeed()

func tableCacheHash(k tableCacheKey) uint64 {
	return maphash.Comparable(tableCacheSeed, k)
}

// staticTableCache memoizes built dynamic-block decode tables keyed by their
// codeword-length sequence, using a windowed-TinyLFU eviction policy (same
// cache family the teacher uses for its block cache) rather than a plain
// LRU, since the access pattern is dominated by a handful of recurring
// table shapes amid a long tail of one-off ones.
type staticTableCache struct {
	cache *tinylfu.T[tableCacheKey, cachedTables]
}

const tableCacheSize = 64

func newStaticTableCache() staticTableCache {
	return staticTableCache{
		cache: tinylfu.New[tableCacheKey, cachedTables](tableCacheSize, tableCacheSize*10, tableCacheHash),
	}
}

func keyFromLengths(lengths []int) (key tableCacheKey, ok bool) {
	if len(lengths) > len(key) {
		return key, false
	}
	for i, n := range lengths {
		if n > 255 {
			return key, false // unreachable: codeword lengths are capped at 15
		}
		key[i] = byte(n)
	}
	return key, true
}

// lookup returns previously built tables for this exact length sequence, if
// this cache has been initialized and has seen it before.
func (c *staticTableCache) lookup(lengths []int) (litlen, offset *huffman.Table, ok bool) {
	if c.cache == nil {
		return nil, nil, false
	}
	key, ok := keyFromLengths(lengths)
	if !ok {
		return nil, nil, false
	}
	t, found := c.cache.Get(key)
	if !found {
		return nil, nil, false
	}
	return t.litlen, t.offset, true
}

// store remembers freshly built tables for this length sequence, lazily
// initializing the underlying cache on first use so a Decompressor that
// never sees a dynamic block never pays for one.
func (c *staticTableCache) store(lengths []int, litlen, offset *huffman.Table) {
	key, ok := keyFromLengths(lengths)
	if !ok {
		return
	}
	if c.cache == nil {
		*c = newStaticTableCache()
	}
	c.cache.Add(key, cachedTables{litlen: litlen, offset: offset})
}
