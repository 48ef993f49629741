// package gpawoo2 models the floating point side of a small SIMD4 shader
// core: four lanes, each with its own FMA unit, a crossbar that lets every
// lane pick which lane each of its operands comes from, and a mask to switch
// lanes off.
package gpawoo2

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/fma"
)

// Lanes is the SIMD width.
const Lanes = 4

// Vec4 holds one packed float per lane.
type Vec4 [Lanes]uint32

// Splat returns a Vec4 with x in every lane.
func Splat(x uint32) Vec4 {
	return Vec4{x, x, x, x}
}

// VecFromFloats packs up to four floats, lane 0 first. Missing lanes are
// zero.
func VecFromFloats[T constraints.Float](fs ...T) Vec4 {
	if len(fs) > Lanes {
		panic(fmt.Errorf("%d floats don't fit in %d lanes", len(fs), Lanes))
	}
	var v Vec4
	for i, f := range fs {
		v[i] = flo.FromFloat(f)
	}
	return v
}

// Floats unpacks every lane.
func Floats[T constraints.Float](v Vec4) [Lanes]T {
	var fs [Lanes]T
	for i, x := range v {
		fs[i] = flo.Float[T](x)
	}
	return fs
}

func (v Vec4) String() string {
	s := make([]string, Lanes)
	for i, f := range Floats[float32](v) {
		s[i] = fmt.Sprint(f)
	}
	return "(" + strings.Join(s, ", ") + ")"
}

// Select is one crossbar setting: lane i reads source lane Select[i]. Only
// the low two bits of each entry are used.
type Select [Lanes]uint8

var (
	// Straight connects every lane to itself.
	Straight = Select{0, 1, 2, 3}
	// Reverse swaps the lanes end for end.
	Reverse = Select{3, 2, 1, 0}
)

// Broadcast sends one lane to all of them.
func Broadcast(lane uint8) Select {
	return Select{lane, lane, lane, lane}
}

// Route applies the crossbar to v.
func (s Select) Route(v Vec4) Vec4 {
	var out Vec4
	for i, src := range s {
		out[i] = v[src&(Lanes-1)]
	}
	return out
}

// LaneMask has bit i set if lane i is disabled.
type LaneMask uint8

// Enabled reports whether lane is on.
func (m LaneMask) Enabled(lane int) bool {
	return m&(1<<lane) == 0
}

// Insn is the floating point part of an instruction: every enabled lane
// computes a*b+c on its routed operands.
type Insn struct {
	A, B, C Select
	Disable LaneMask
	// NegateProduct and NegateResult are the two opcode bits that flip
	// the sign of the intermediate product and of the output.
	NegateProduct, NegateResult bool
}

// FMA is a plain lanewise a*b+c.
var FMA = Insn{A: Straight, B: Straight, C: Straight}

func (in Insn) unit() fma.Unit {
	return fma.Unit{
		NegateProduct: in.NegateProduct,
		NegateResult:  in.NegateResult,
	}
}

// Exec runs in on a, b and c. Disabled lanes keep their value from dst.
func (in Insn) Exec(dst, a, b, c Vec4) Vec4 {
	var (
		u  = in.unit()
		ra = in.A.Route(a)
		rb = in.B.Route(b)
		rc = in.C.Route(c)
	)
	for i := range dst {
		if !in.Disable.Enabled(i) {
			continue
		}
		dst[i] = u.Eval(ra[i], rb[i], rc[i])
	}
	return dst
}

// Encoding of an Insn in 30 bits:
//
//	bits 0-3    lane disable mask
//	bits 4-11   crossbar for a, two bits per lane, lane 0 lowest
//	bits 12-19  crossbar for b
//	bits 20-27  crossbar for c
//	bit 28      negate product
//	bit 29      negate result
const (
	disableShift    = 0
	aShift          = 4
	bShift          = 12
	cShift          = 20
	negProductShift = 28
	negResultShift  = 29
)

func (s Select) encode() uint32 {
	var x uint32
	for i, src := range s {
		x |= uint32(src&(Lanes-1)) << (2 * i)
	}
	return x
}

func decodeSelect(x uint32) Select {
	var s Select
	for i := range s {
		s[i] = uint8(x>>(2*i)) & (Lanes - 1)
	}
	return s
}

// Encode packs in into its instruction bits.
func (in Insn) Encode() uint32 {
	x := uint32(in.Disable&0xf)<<disableShift |
		in.A.encode()<<aShift |
		in.B.encode()<<bShift |
		in.C.encode()<<cShift
	if in.NegateProduct {
		x |= 1 << negProductShift
	}
	if in.NegateResult {
		x |= 1 << negResultShift
	}
	return x
}

// Decode unpacks an Insn from the bits written by Encode. Bits above 29
// must be zero.
func Decode(x uint32) (Insn, error) {
	if x>>30 != 0 {
		return Insn{}, fmt.Errorf("instruction %08x has reserved bits set", x)
	}
	return Insn{
		Disable:       LaneMask(x>>disableShift) & 0xf,
		A:             decodeSelect(x >> aShift),
		B:             decodeSelect(x >> bShift),
		C:             decodeSelect(x >> cShift),
		NegateProduct: x>>negProductShift&1 != 0,
		NegateResult:  x>>negResultShift&1 != 0,
	}, nil
}
