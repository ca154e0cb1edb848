package deflate

import "sync/atomic"

// Allocator returns a byte slice of at least size bytes, analogous to the
// spec's malloc_fn half of set_memory_allocator (§5). The returned slice's
// length is not significant to callers; only its capacity matters.
type Allocator func(size int) []byte

// defaultAllocator is plain make, used whenever no override is installed.
func defaultAllocator(size int) []byte { return make([]byte, size) }

var currentAllocator atomic.Pointer[Allocator]

// SetMemoryAllocator installs a process-wide allocator override, read by
// AllocOutput (§5).
// Passing nil restores the default make-based allocator. Like the spec's
// C-shaped allocator, this is meant to be called once before any handle is
// created; callers providing a custom allocator are responsible for its
// own thread-safety (§5, "Locking").
//
// AllocOutput is the only reader of this override. The handles do not
// allocate through it: Compress, Decompress and the internal tables (hash
// chains, Huffman tables) use ordinary Go allocation.
func SetMemoryAllocator(alloc Allocator) {
	if alloc == nil {
		currentAllocator.Store(nil)
		return
	}
	currentAllocator.Store(&alloc)
}

// AllocOutput returns a zero-length slice with at least size bytes of
// capacity, using whatever allocator SetMemoryAllocator last installed.
// Compress/Decompress callers that want handle-level control over output
// buffer provenance call this to build the dst/out slice they pass in.
func AllocOutput(size int) []byte {
	if p := currentAllocator.Load(); p != nil {
		return (*p)(size)[:0]
	}
	return defaultAllocator(size)[:0]
}
