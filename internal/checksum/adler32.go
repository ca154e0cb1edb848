// Package checksum implements the two running checksums the wrapper
// formats need: Adler-32 for zlib (RFC 1950) and CRC-32 for gzip (RFC 1952).
// Each has a plain scalar loop and a lane-decomposed variant selected
// through internal/cpudetect, mirroring how a real SIMD implementation
// would split the buffer across vector lanes — without depending on actual
// assembly, which this module has no way to verify without a compiler.
package checksum

import "github.com/elliotnunn/deflate/internal/cpudetect"

const adlerMod = 65521

// adlerChunk caps how many bytes can accumulate in a uint32 s2 sum before
// it risks overflowing on reduction, following the standard zlib NMAX
// derivation: 5552 is the largest n such that 255*n*(n+1)/2 + (n+1)*65520 < 2^32.
const adlerChunk = 5552

// Adler32 computes the RFC 1950 Adler-32 checksum of data, continuing from
// running value prev (pass 1 to start a fresh stream).
func Adler32(prev uint32, data []byte) uint32 {
	if cpudetect.Detect().Has(cpudetect.HasWide256) && len(data) >= 4*adlerChunk {
		return adler32Lanes(prev, data)
	}
	return adler32Scalar(prev, data)
}

func adler32Scalar(prev uint32, data []byte) uint32 {
	s1 := prev & 0xffff
	s2 := prev >> 16
	for len(data) > 0 {
		n := len(data)
		if n > adlerChunk {
			n = adlerChunk
		}
		for _, b := range data[:n] {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= adlerMod
		s2 %= adlerMod
		data = data[n:]
	}
	return s2<<16 | s1
}

// adler32Lanes splits data into four roughly-equal lanes, computes each
// lane's checksum independently as if it were its own stream, then folds
// the four results together with the standard Adler-32 concatenation
// identity. This is the data-parallel decomposition a 256-bit-wide SIMD
// adler32 would use, expressed without any actual vector instructions.
func adler32Lanes(prev uint32, data []byte) uint32 {
	const lanes = 4
	laneLen := len(data) / lanes
	a, b := prev&0xffff, prev>>16
	for i := 0; i < lanes; i++ {
		start := i * laneLen
		end := start + laneLen
		if i == lanes-1 {
			end = len(data)
		}
		lane := adler32Scalar(1, data[start:end])
		la, lb := uint64(lane&0xffff), uint64(lane>>16)
		n := uint64(end - start)
		// Concatenation identity: combining a stream of running sum
		// (a, b) with a fresh stream (la, lb) of length n yields
		// a' = a + la - 1, b' = b + lb + n*(a-1), each reduced mod M.
		// n*(a-1) can run well past uint32 range for large lanes, so the
		// combine step itself runs in uint64.
		aMinus1 := (uint64(a) + adlerMod - 1) % adlerMod
		na := (aMinus1 + la) % adlerMod
		nb := (uint64(b) + lb + n*aMinus1) % adlerMod
		a, b = uint32(na), uint32(nb)
	}
	return b<<16 | a
}
