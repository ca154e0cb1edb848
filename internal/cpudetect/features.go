// Package cpudetect exposes a process-wide, lazily-initialized bitmask of
// the SIMD-width features internal/checksum cares about, on top of
// golang.org/x/sys/cpu's platform probing.
package cpudetect

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Features is a bitmask of detected vector-width capabilities relevant to
// this codec's checksum fast paths. Only width matters here,
// not the specific instruction set — the module has no assembly of its own,
// so "AVX2-wide" just means "safe to process 32 bytes at a time instead of
// 8" in the pure-Go vector-width-parallel code paths.
type Features uint32

const (
	// HasWide64 means the platform can usefully move data eight bytes at a
	// time; true everywhere Go runs today, kept as a named bit so callers
	// read intent rather than a bare "true".
	HasWide64 Features = 1 << iota
	// HasWide256 means the platform's vector unit is at least 256 bits
	// wide (AVX2 on x86-64, SVE-128-or-wider approximated on ARM64 by
	// ASIMD), letting internal/checksum process four words at a time
	// instead of one.
	HasWide256
)

var (
	once     sync.Once
	detected Features
)

// Detect returns the process-wide feature bitmask, probing the host once
// and caching the result. Concurrent calls during the first probe are
// benign: sync.Once guarantees the probe itself runs exactly once, and the
// result is immutable afterward.
func Detect() Features {
	once.Do(func() {
		detected = HasWide64
		if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
			detected |= HasWide256
		}
	})
	return detected
}

// Has reports whether feature is present in the cached detection result.
func (f Features) Has(feature Features) bool {
	return f&feature != 0
}
