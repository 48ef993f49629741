package flo

import "fmt"

// Overflow decides what RoundAndPack produces when the exponent is too big
// to fit in the packed field.
type Overflow uint8

const (
	// Saturate sets every bit apart from the sign. This is not an IEEE
	// infinity (the fraction is all ones too), it is the largest
	// representable pattern with the right sign. It is the default and
	// what the golden vectors expect.
	Saturate Overflow = iota
	// Infinity produces an IEEE infinity of the right sign.
	Infinity
)

func (o Overflow) String() string {
	switch o {
	case Saturate:
		return "saturate"
	case Infinity:
		return "infinity"
	}
	return fmt.Sprintf("Overflow(%d)", uint8(o))
}

// ParseOverflow is the inverse of Overflow.String. The empty string is
// Saturate.
func ParseOverflow(s string) (Overflow, error) {
	switch s {
	case "", "saturate":
		return Saturate, nil
	case "infinity", "inf":
		return Infinity, nil
	}
	return 0, fmt.Errorf("unknown overflow mode %q", s)
}

func (o Overflow) pattern(sign uint32) uint32 {
	if o == Infinity {
		return sign | expMask<<FracBits
	}
	return sign | ^uint32(signMask)
}

const (
	// roundBits is the number of guard bits below the packed fraction.
	roundBits = Point - FracBits
	roundHalf = 1 << (roundBits - 1)
	roundMask = 1<<roundBits - 1
)

// RoundAndPack rounds u to nearest even and packs it into 32 bits, saturating
// on overflow. Exponents too small for the packed field give a zero with u's
// sign.
//
// u.Mant may be one bit wider than a normalized mantissa.
func RoundAndPack(u Unpacked) uint32 {
	return Saturate.Pack(u)
}

// Pack is RoundAndPack with o deciding the overflow encoding.
func (o Overflow) Pack(u Unpacked) uint32 {
	var sign uint32
	if u.Sign {
		sign = signMask
	}

	rounded := u.Mant >> roundBits
	rem := u.Mant & roundMask
	if rem > roundHalf || rem == roundHalf && rounded&1 != 0 {
		rounded++
	}

	biased := u.Exp + Bias
	if rounded&(1<<(FracBits+1)) != 0 {
		// rounding (or the input) carried past the implicit one.
		rounded >>= 1
		biased++
	}

	switch {
	case biased < 0:
		return sign
	case biased > expMask, o == Infinity && biased == expMask:
		// Saturate treats an exponent field of all ones as finite,
		// IEEE doesn't.
		return o.pattern(sign)
	}
	return sign | uint32(biased)<<FracBits | rounded&fracMask
}
