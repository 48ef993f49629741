// package flo provides the pieces of a single precision fused multiply-add:
// unpacking 32 bit floats into a wide fixed-point form, shifting without
// losing rounding information, renormalizing and packing back down with
// round to nearest even.
//
// The packed layout is IEEE-754 single precision, but the arithmetic is not
// quite IEEE: subnormal inputs are flushed to zero, an all-ones exponent is
// just a large exponent (there are no infinities or NaNs) and results that
// overflow saturate rather than becoming infinite (see Overflow).
package flo

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// ExpBits is the width of the packed exponent field.
	ExpBits = 8
	// FracBits is the width of the explicit, packed mantissa.
	FracBits = 23
	// Bias is subtracted from the packed exponent field.
	Bias = 127
	// Point is the bit position of the implicit leading one in an
	// Unpacked mantissa. The 7 bits below the packed fraction are guard
	// bits that survive until the final rounding.
	Point = 30
	// WidePoint is the bit position of the implicit one in a wide
	// (product-scale) accumulator.
	WidePoint = 2 * Point

	// MinExp is the unbiased exponent of zero.
	MinExp = -Bias

	signMask = 1 << 31
	fracMask = 1<<FracBits - 1
	expMask  = 1<<ExpBits - 1
)

// Unpacked is a float split into its sign, unbiased exponent and mantissa.
// A nonzero mantissa always has bit Point set. A zero mantissa is a zero,
// whatever the exponent.
type Unpacked struct {
	Sign bool
	Exp  int32
	Mant uint32
}

// Zero is the canonical zero produced by Renormalize.
var Zero = Unpacked{Exp: MinExp}

// IsZero reports whether u represents a zero.
func (u Unpacked) IsZero() bool { return u.Mant == 0 }

// Value returns the exact value of u as a float64. Every Unpacked produced
// by Split is exactly representable.
func (u Unpacked) Value() float64 {
	v := math.Ldexp(float64(u.Mant), int(u.Exp)-Point)
	if u.Sign {
		return -v
	}
	return v
}

func (u Unpacked) String() string {
	s := '+'
	if u.Sign {
		s = '-'
	}
	return fmt.Sprintf("%c0x%08x*2^%d", s, u.Mant, u.Exp)
}

// Split unpacks a 32 bit float. An exponent field of zero is always zero,
// regardless of the fraction bits.
func Split(x uint32) Unpacked {
	field := int32(x>>FracBits) & expMask
	u := Unpacked{
		Sign: x&signMask != 0,
		Exp:  field - Bias,
	}
	if field == 0 {
		return u
	}
	u.Mant = (x&fracMask | 1<<FracBits) << (Point - FracBits)
	return u
}

// Float reinterprets the bits of a packed float as a T.
func Float[T constraints.Float](x uint32) T {
	return T(math.Float32frombits(x))
}

// FromFloat returns the packed bits of f, first converting it to a float32.
func FromFloat[T constraints.Float](f T) uint32 {
	return math.Float32bits(float32(f))
}
