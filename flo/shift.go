package flo

import "math/bits"

// shift.go has the shifts used for alignment and normalization. Like the
// saturating ops these used to be, each has a couple of implementations and
// the exported function picks one; flo_test.go checks they all agree.

// StickyShift shifts x right by n, setting the lowest bit of the result if
// any of the bits shifted out were set. This keeps enough information about
// the discarded bits for rounding to tell "exactly half" from "a bit more
// than half".
func StickyShift(x uint64, n uint) uint64 {
	return stickyShiftMask(x, n)
}

// stickyShiftMask checks the discarded bits with a mask.
func stickyShiftMask(x uint64, n uint) uint64 {
	if n == 0 {
		return x
	}
	if n >= 64 {
		if x != 0 {
			return 1
		}
		return 0
	}
	r := x >> n
	if x&(1<<n-1) != 0 {
		r |= 1
	}
	return r
}

// stickyShiftBack shifts back up and compares, which avoids building the
// mask.
func stickyShiftBack(x uint64, n uint) uint64 {
	if n >= 64 {
		return min(x, 1)
	}
	r := x >> n
	if r<<n != x {
		r |= 1
	}
	return r
}

// leadingZeros counts the zero bits above the highest set bit of x.
func leadingZeros(x uint64) int {
	return bits.LeadingZeros64(x)
}

// leadingZerosScan is how the hardware does it: look at every bit, and let
// the highest set one win.
func leadingZerosScan(x uint64) int {
	n := 64
	for j := 0; j < 64; j++ {
		if x&(1<<j) != 0 {
			n = 63 - j
		}
	}
	return n
}
