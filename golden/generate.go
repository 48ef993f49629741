package golden

import (
	"github.com/Ravenslofty/gpawoo2/fma"
	"github.com/Ravenslofty/gpawoo2/internal/lfsr"
)

// Generate makes n cases from a stream of random operands seeded with seed,
// with u providing the expected results. Every fourth case multiplies by
// exactly one and every eighth adds zero, so the passthrough and
// product-only paths turn up regularly.
func Generate(u fma.Unit, seed uint32, n int) []Case {
	const one = 0x3f800000
	l := lfsr.New(seed)
	cases := make([]Case, n)
	for i := range cases {
		a, b, c := l.Uint32(), l.Uint32(), l.Uint32()
		if i%4 == 1 {
			b = one
		}
		if i%8 == 3 {
			c = 0
		}
		cases[i] = Case{
			A:    a,
			B:    b,
			C:    c,
			Want: u.Eval(a, b, c),
		}
	}
	return cases
}

// Basics returns a handful of named cases that are easy to check by hand.
func Basics() []Case {
	const (
		one      = 0x3f800000
		two      = 0x40000000
		three    = 0x40400000
		four     = 0x40800000
		seven    = 0x40e00000
		minusOne = 0xbf800000
		minusTwo = 0xc0000000
	)
	return []Case{
		{Name: "one plus one", A: one, B: one, C: one, Want: two},
		{Name: "two plus one", A: one, B: two, C: one, Want: three},
		{Name: "one plus two", A: one, B: one, C: two, Want: three},
		{Name: "one minus one", A: one, B: one, C: minusOne, Want: 0},
		{Name: "two minus one", A: one, B: two, C: minusOne, Want: one},
		{Name: "one minus two", A: one, B: one, C: minusTwo, Want: minusOne},
		{Name: "two times two", A: two, B: two, C: 0, Want: four},
		{Name: "two times three plus one", A: two, B: three, C: one, Want: seven},
		{Name: "rand1", A: 0xf03479d1, B: 0x8aee42bf, C: 0xbba48e86, Want: 0x38da7217},
	}
}
