package bitio

import "math/bits"

func countTrailingZeros64(x uint64) int {
	return bits.TrailingZeros64(x)
}
