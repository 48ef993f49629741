package fma

import (
	"fmt"

	"github.com/Ravenslofty/gpawoo2/flo"
)

// Wide is a sign and exponent with a wide mantissa that has its implicit
// one at flo.WidePoint. Products are exact in a Wide, and so are sums once
// the smaller operand has been sticky shifted into place.
type Wide struct {
	Sign bool
	Exp  int32
	Mant uint64
}

func (w Wide) String() string {
	s := '+'
	if w.Sign {
		s = '-'
	}
	return fmt.Sprintf("%c0x%016x*2^%d", s, w.Mant, w.Exp)
}

// multiply returns the exact product of a and b. Both mantissas have their
// leading one at flo.Point, so the product's is at 2*Point or one above; in
// the second case it is moved down, which loses nothing because the low
// bits of a product of two Split mantissas are always zero.
func multiply(a, b flo.Unpacked) Wide {
	p := Wide{
		Sign: a.Sign != b.Sign,
		Exp:  a.Exp + b.Exp,
		Mant: uint64(a.Mant) * uint64(b.Mant),
	}
	if p.Mant>>(flo.WidePoint+1) != 0 {
		p.Exp++
		p.Mant >>= 1
	}
	return p
}

// widen scales an addend up to product scale.
func widen(c flo.Unpacked) Wide {
	return Wide{
		Sign: c.Sign,
		Exp:  c.Exp,
		Mant: uint64(c.Mant) << flo.Point,
	}
}

// alignTo returns w's mantissa shifted to sit under exponent exp, which must
// be at least w.Exp.
func (w Wide) alignTo(exp int32) uint64 {
	return flo.StickyShift(w.Mant, uint(exp-w.Exp))
}

// Case is one of the ways a product and an addend can combine.
type Case uint8

const (
	// Passthrough: the product is zero, the result is the addend.
	Passthrough Case = iota
	// ProductOnly: the addend is zero, the result is the product.
	ProductOnly
	// Add: same signs, magnitudes add. The result takes the sign and
	// exponent of whichever operand was not shifted.
	Add
	// SubProduct: different signs and the product is bigger.
	SubProduct
	// SubAddend: different signs and the addend is at least as big.
	SubAddend
)

func (k Case) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case ProductOnly:
		return "product-only"
	case Add:
		return "add"
	case SubProduct:
		return "sub-product"
	case SubAddend:
		return "sub-addend"
	}
	return fmt.Sprintf("Case(%d)", uint8(k))
}

// Classify decides which Case applies to product p and addend c.
//
// For different signs the product only counts as bigger if its exponent is
// bigger, or the exponents match and its mantissa is strictly bigger, so
// exact cancellation is SubAddend.
func Classify(p Wide, c flo.Unpacked) Case {
	switch {
	case p.Mant == 0:
		return Passthrough
	case c.Mant == 0:
		return ProductOnly
	case p.Sign == c.Sign:
		return Add
	}
	a := widen(c)
	if d := p.Exp - a.Exp; d > 0 || d == 0 && p.Mant > a.Mant {
		return SubProduct
	}
	return SubAddend
}

// combine carries out k on p and c. It must not be called with Passthrough,
// which has nothing to combine.
func combine(k Case, p Wide, c flo.Unpacked) Wide {
	a := widen(c)
	switch k {
	case ProductOnly:
		return p
	case Add:
		if p.Exp > a.Exp {
			p.Mant += a.alignTo(p.Exp)
			return p
		}
		a.Mant += p.alignTo(a.Exp)
		return a
	case SubProduct:
		p.Mant -= a.alignTo(p.Exp)
		return p
	case SubAddend:
		a.Mant -= p.alignTo(a.Exp)
		return a
	}
	panic(fmt.Errorf("combine: nothing to combine for %v", k))
}
