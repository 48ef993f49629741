package flo

// Renormalize takes a wide accumulator with its implicit point at WidePoint
// and produces a normalized Unpacked. The highest set bit of wide decides
// the new exponent; everything below what fits in an Unpacked mantissa is
// folded into the sticky bit.
//
// A zero accumulator always gives Zero, dropping the sign: x - x is +0.
func Renormalize(sign bool, exp int32, wide uint64) Unpacked {
	if wide == 0 {
		return Zero
	}
	clz := leadingZeros(wide)
	// After the shift the leading one is at bit 63, which is 63-WidePoint
	// above where an exponent of exp would put it.
	const k = 63 - WidePoint
	return Unpacked{
		Sign: sign,
		Exp:  exp - int32(clz) + k,
		Mant: uint32(StickyShift(wide<<clz, 63-Point)),
	}
}
