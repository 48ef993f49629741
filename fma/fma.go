// package fma computes a*b+c on packed single precision floats with a
// single rounding at the end.
//
// It follows the arithmetic in package flo, so it has the same quirks:
// subnormal inputs are zero, there are no infinities or NaNs on the way in
// and by default overflow saturates to a sign followed by 31 ones.
//
// Everything here is a pure function of its arguments and is safe to call
// from as many goroutines as you like.
package fma

import (
	"github.com/Ravenslofty/gpawoo2/flo"
)

// FMA returns a*b+c.
func FMA(a, b, c uint32) uint32 {
	return Unit{}.Eval(a, b, c)
}

// Unit is an FMA unit with a few knobs. The zero Unit is FMA.
type Unit struct {
	// Overflow decides how too-large results are encoded.
	Overflow flo.Overflow
	// NegateProduct computes -(a*b)+c.
	NegateProduct bool
	// NegateResult flips the sign bit of the packed result, zeros
	// included.
	NegateResult bool
}

// Eval returns a*b+c, modified by u's settings.
func (u Unit) Eval(a, b, c uint32) uint32 {
	return u.run(a, b, c, nil)
}

// Trace records every intermediate value of one evaluation.
type Trace struct {
	A, B, C flo.Unpacked

	// RawProduct is the product of the mantissas before it is
	// normalized.
	RawProduct uint64
	Product    Wide

	Case Case
	// ExpDiff is the product exponent minus the addend exponent.
	ExpDiff int32
	// Combined is the accumulator handed to flo.Renormalize. It is
	// left zero for Passthrough.
	Combined Wide

	// Rounded is what gets packed.
	Rounded flo.Unpacked
	Result  uint32
}

// Trace evaluates a*b+c like Eval, keeping all the intermediate values.
func (u Unit) Trace(a, b, c uint32) Trace {
	var t Trace
	u.run(a, b, c, &t)
	return t
}

func (u Unit) run(a, b, c uint32, t *Trace) uint32 {
	ua, ub, uc := flo.Split(a), flo.Split(b), flo.Split(c)

	p := multiply(ua, ub)
	if u.NegateProduct {
		p.Sign = !p.Sign
	}

	k := Classify(p, uc)
	var (
		acc Wide
		r   flo.Unpacked
	)
	if k == Passthrough {
		r = uc
	} else {
		acc = combine(k, p, uc)
		r = flo.Renormalize(acc.Sign, acc.Exp, acc.Mant)
	}

	q := u.Overflow.Pack(r)
	if u.NegateResult {
		q ^= 1 << 31
	}

	if t != nil {
		*t = Trace{
			A:          ua,
			B:          ub,
			C:          uc,
			RawProduct: uint64(ua.Mant) * uint64(ub.Mant),
			Product:    p,
			Case:       k,
			ExpDiff:    p.Exp - uc.Exp,
			Combined:   acc,
			Rounded:    r,
			Result:     q,
		}
	}
	return q
}
