// SPDX-License-Identifier: MIT
//
// Package bitint provides power-of-2 helpers used to size analysis windows
// and FFT buffers. All operations are O(1), allocation-free, and safe to
// call from the audio hot path.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
// The (size-1) adjustment keeps exact powers of 2 from being doubled:
// for 8, bits.Len64(7) = 3 and 1<<3 = 8. Non-positive sizes yield 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// A power of 2 has exactly one bit set, so n&(n-1) must clear to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
