// package lfsr is a 32 bit linear-feedback shift register, used to make
// reproducible streams of random test operands.
package lfsr

import "fmt"

// DefaultTaps is x^32 + x^22 + x^2 + x + 1, which has the maximum period
// of 2^32-1.
const DefaultTaps uint32 = 0x80200003

// LFSR is a Galois LFSR. The zero value is not useful, use New.
type LFSR struct {
	state uint32
	taps  uint32
}

// New returns an LFSR with DefaultTaps, starting from seed. The all-zero
// state never changes, so a seed of zero starts from all ones instead.
func New(seed uint32) *LFSR {
	if seed == 0 {
		seed = 0xffffffff
	}
	return &LFSR{
		state: seed,
		taps:  DefaultTaps,
	}
}

func (l *LFSR) String() string { return fmt.Sprintf("LFSR(%08x)", l.taps) }

// Step advances by one bit and returns it.
func (l *LFSR) Step() uint32 {
	fb := l.state & 1
	l.state >>= 1
	if fb == 1 {
		l.state ^= l.taps
	}
	return fb
}

// Uint32 advances by 32 bits, so consecutive results don't share any bits.
func (l *LFSR) Uint32() uint32 {
	var x uint32
	for i := 0; i < 32; i++ {
		x = x<<1 | l.Step()
	}
	return x
}
