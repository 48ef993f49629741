package fma

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/internal/lfsr"
)

const (
	one      = 0x3f800000
	two      = 0x40000000
	three    = 0x40400000
	minusOne = 0xbf800000
	minusTwo = 0xc0000000
)

func TestFMA(t *testing.T) {
	for _, c := range []struct {
		name    string
		a, b, c uint32
		out     uint32
	}{
		{"one plus one", one, one, one, two},
		{"two plus one", one, two, one, three},
		{"one plus two", one, one, two, three},
		{"one minus one", one, one, minusOne, 0},
		{"two minus one", one, two, minusOne, one},
		{"one minus two", one, one, minusTwo, minusOne},
		{"two times two", two, two, 0, 0x40800000},
		{"two times three plus one", two, three, one, 0x40e00000},
		{"rand1", 0xf03479d1, 0x8aee42bf, 0xbba48e86, 0x38da7217},
		{"zero times anything", 0, 0x7f7fffff, three, three},
		{"subnormal times anything", 0x00000001, 0x7f7fffff, three, three},
		{"anything plus zero", three, three, 0, 0x41100000},
		{"both zero", 0, 0, 0, 0},
		{"negative zero passes through", 0, one, 0x80000000, 0x80000000},
		{"one and a half squared minus itself", 0x3fc00000, 0x3fc00000, 0xc0100000, 0},
		// (1+2^-23)^2 - (1+2^-22) = 2^-46, which a separate multiply
		// and add would round away.
		{"single rounding", 0x3f800001, 0x3f800001, 0xbf800002, 0x28800000},
		{"tiny addend is sticky", one, one, 0x20000000, one},
		{"negative tiny addend", one, one, 0xa0000000, one},
		// just over half an ulp below one, only the sticky bit says so.
		{"sticky decides rounding", one, one, 0xb3800001, 0x3f7fffff},
	} {
		if got := FMA(c.a, c.b, c.c); got != c.out {
			t.Errorf("%s: FMA(%08x, %08x, %08x) = %08x, want: %08x", c.name, c.a, c.b, c.c, got, c.out)
		}
	}
}

func TestTieToEven(t *testing.T) {
	for _, c := range []struct {
		name    string
		a, b, c uint32
		out     uint32
	}{
		// 1 + 2^-24 is exactly between 1 and 1+2^-23.
		{"even below", one, one, 0x33800000, one},
		{"even below, addend first", 0x33800000, one, one, one},
		// 1+2^-23 + 2^-24 is between two odd and even neighbours.
		{"even above", 0x3f800001, one, 0x33800000, 0x3f800002},
		// 2 + 2^-23 is between 2 and 2+2^-22.
		{"even below, bigger exponent", one, one, 0x3f800001, two},
		{"negative", minusOne, one, 0xb3800000, minusOne},
	} {
		if got := FMA(c.a, c.b, c.c); got != c.out {
			t.Errorf("%s: FMA(%08x, %08x, %08x) = %08x, want: %08x", c.name, c.a, c.b, c.c, got, c.out)
		}
	}
}

func TestRange(t *testing.T) {
	for _, c := range []struct {
		name     string
		a, b, c  uint32
		sat, inf uint32
	}{
		{"product overflow", 0x7f000000, 0x40800000, 0, 0x7fffffff, 0x7f800000},
		{"negative product overflow", 0xff000000, 0x40800000, 0, 0xffffffff, 0xff800000},
		{"sum overflow", 0x7f7fffff, one, 0x7f7fffff, 0x7fffffff, 0x7f800000},
		{"exponent field 255, finite only when saturating", 0x7f000000, two, 0, 0x7f800000, 0x7f800000},
		{"underflow", 0x00800000, 0x3e800000, 0, 0, 0},
		{"negative underflow", 0x80800000, 0x3e800000, 0, 0x80000000, 0x80000000},
		{"product underflow", 0x01000000, 0x01000000, 0, 0, 0},
	} {
		if got := FMA(c.a, c.b, c.c); got != c.sat {
			t.Errorf("%s: FMA(%08x, %08x, %08x) = %08x, want: %08x", c.name, c.a, c.b, c.c, got, c.sat)
		}
		u := Unit{Overflow: flo.Infinity}
		if got := u.Eval(c.a, c.b, c.c); got != c.inf {
			t.Errorf("%s: infinity unit: %08x, want: %08x", c.name, got, c.inf)
		}
	}
}

func TestAdditionCommutes(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	l := lfsr.New(7)
	for _, src := range []struct {
		name string
		next func() uint32
		n    int
	}{
		{"math/rand", r.Uint32, 100000},
		{"lfsr", l.Uint32, 30000},
	} {
		for i := 0; i < src.n; i++ {
			x, y := src.next(), src.next()
			if isZero(x) && isZero(y) {
				// a zero addend passes through with its sign, so
				// -0*1 + 0 and 0*1 + -0 differ.
				continue
			}
			q1 := FMA(x, one, y)
			q2 := FMA(y, one, x)
			q3 := FMA(one, x, y)
			q4 := FMA(one, y, x)
			if q1 != q2 || q2 != q3 || q3 != q4 {
				t.Fatalf("%s: x=%08x y=%08x: %08x %08x %08x %08x", src.name, x, y, q1, q2, q3, q4)
			}
		}
	}
}

func TestZeroAddendSign(t *testing.T) {
	if got := FMA(0x80000000, one, 0); got != 0 {
		t.Errorf("-0*1 + 0 = %08x, want 0", got)
	}
	if got := FMA(0, one, 0x80000000); got != 0x80000000 {
		t.Errorf("0*1 + -0 = %08x, want 80000000", got)
	}
}

func isZero(x uint32) bool { return x>>flo.FracBits&0xff == 0 }

// exact computes a*b+c with math/big and rounds once to float32.
func exact(a, b, c uint32) uint32 {
	f := func(x uint32) *big.Float {
		return new(big.Float).SetFloat64(flo.Float[float64](x))
	}
	r := new(big.Float).SetPrec(512)
	r.Mul(f(a), f(b))
	r.Add(r, f(c))
	g, _ := r.Float32()
	return flo.FromFloat(g)
}

// normal returns a random float with its exponent field in [lo, hi].
func normal(r *rand.Rand, lo, hi int) uint32 {
	e := uint32(lo + r.Intn(hi-lo+1))
	return r.Uint32()&0x807fffff | e<<flo.FracBits
}

func TestMatchesExact(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 20000; i++ {
		// keep everything well away from subnormals and overflow,
		// where the unit deliberately differs from IEEE.
		a := normal(r, 100, 150)
		b := normal(r, 100, 150)
		c := normal(r, 90, 170)
		got, want := FMA(a, b, c), exact(a, b, c)
		if got != want {
			t.Errorf("FMA(%08x, %08x, %08x) = %08x, want: %08x", a, b, c, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	p := func(a, b uint32) Wide { return multiply(flo.Split(a), flo.Split(b)) }
	for _, c := range []struct {
		name string
		p    Wide
		c    uint32
		out  Case
	}{
		{"zero product", p(0, three), three, Passthrough},
		{"zero product and addend", p(0, 0), 0, Passthrough},
		{"zero addend", p(two, three), 0, ProductOnly},
		{"same signs", p(two, three), one, Add},
		{"same negative signs", p(minusTwo, three), minusOne, Add},
		{"product exponent bigger", p(two, three), minusOne, SubProduct},
		{"same exponent, product bigger", p(one, three), minusTwo, SubProduct},
		{"same exponent, equal", p(one, two), minusTwo, SubAddend},
		{"same exponent, addend bigger", p(one, two), 0xc0400000, SubAddend},
		{"addend exponent bigger", p(one, one), minusTwo, SubAddend},
	} {
		if got := Classify(c.p, flo.Split(c.c)); got != c.out {
			t.Errorf("%s: Classify(%v, %08x) = %v, want: %v", c.name, c.p, c.c, got, c.out)
		}
	}
}

func TestMultiply(t *testing.T) {
	for _, c := range []struct {
		a, b uint32
		out  Wide
	}{
		{one, one, Wide{false, 0, 1 << 60}},
		{two, minusOne, Wide{true, 1, 1 << 60}},
		{three, three, Wide{false, 3, 9 << 57}},
		{0, three, Wide{false, -126, 0}},
	} {
		if got := multiply(flo.Split(c.a), flo.Split(c.b)); got != c.out {
			t.Errorf("multiply(%08x, %08x) = %v, want: %v", c.a, c.b, got, c.out)
		}
	}
}

func TestCombine(t *testing.T) {
	p := func(a, b uint32) Wide { return multiply(flo.Split(a), flo.Split(b)) }
	for _, c := range []struct {
		name string
		k    Case
		p    Wide
		c    uint32
		out  Wide
	}{
		{"product only", ProductOnly, p(two, three), 0, Wide{false, 2, 3 << 59}},
		{"add, product bigger", Add, p(two, three), one, Wide{false, 2, 7 << 58}},
		{"add, addend bigger", Add, p(one, one), three, Wide{false, 1, 1 << 61}},
		{"sub product", SubProduct, p(two, three), minusOne, Wide{false, 2, 5 << 58}},
		{"sub addend", SubAddend, p(one, one), 0xc0400000, Wide{true, 1, 1 << 60}},
		{"cancel", SubAddend, p(one, one), minusOne, Wide{true, 0, 0}},
		// 2^-61 is entirely shifted out, leaving only the sticky bit.
		{"sticky", Add, p(one, one), 0x21000000, Wide{false, 0, 1<<60 | 1}},
	} {
		if got := combine(c.k, c.p, flo.Split(c.c)); got != c.out {
			t.Errorf("%s: combine(%v, %v, %08x) = %v, want: %v", c.name, c.k, c.p, c.c, got, c.out)
		}
	}
}

func TestTrace(t *testing.T) {
	got := Unit{}.Trace(two, three, one)
	want := Trace{
		A:          flo.Unpacked{Exp: 1, Mant: 1 << 30},
		B:          flo.Unpacked{Exp: 1, Mant: 0x60000000},
		C:          flo.Unpacked{Exp: 0, Mant: 1 << 30},
		RawProduct: 0x1800000000000000,
		Product:    Wide{Exp: 2, Mant: 0x1800000000000000},
		Case:       Add,
		ExpDiff:    2,
		Combined:   Wide{Exp: 2, Mant: 0x1c00000000000000},
		Rounded:    flo.Unpacked{Exp: 2, Mant: 0x70000000},
		Result:     0x40e00000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trace(2, 3, 1): unexpected diff (-want,+got):\n%v", diff)
	}

	got = Unit{}.Trace(0, three, minusTwo)
	if got.Case != Passthrough || got.Combined != (Wide{}) || got.Rounded != flo.Split(minusTwo) {
		t.Errorf("Trace(0, 3, -2) = %+v", got)
	}
}

func TestUnit(t *testing.T) {
	for _, c := range []struct {
		name    string
		u       Unit
		a, b, c uint32
		out     uint32
	}{
		{"zero unit", Unit{}, two, three, one, 0x40e00000},
		{"negate product", Unit{NegateProduct: true}, one, two, one, minusOne},
		{"negate result", Unit{NegateResult: true}, one, one, one, minusTwo},
		{"negate both", Unit{NegateProduct: true, NegateResult: true}, one, one, one, 0x80000000},
		{"negate product overflow", Unit{NegateProduct: true, Overflow: flo.Infinity}, 0x7f000000, 0x40800000, 0, 0xff800000},
	} {
		if got := c.u.Eval(c.a, c.b, c.c); got != c.out {
			t.Errorf("%s: %+v.Eval(%08x, %08x, %08x) = %08x, want: %08x", c.name, c.u, c.a, c.b, c.c, got, c.out)
		}
		if got := c.u.Trace(c.a, c.b, c.c).Result; got != c.out {
			t.Errorf("%s: Trace result %08x, want: %08x", c.name, got, c.out)
		}
	}
}

func BenchmarkFMA(b *testing.B) {
	r := rand.New(rand.NewSource(3))
	xs := make([]uint32, 3*1024)
	for i := range xs {
		xs[i] = r.Uint32()
	}
	b.ResetTimer()
	var sink uint32
	for i := 0; i < b.N; i++ {
		j := 3 * (i & 1023)
		sink ^= FMA(xs[j], xs[j+1], xs[j+2])
	}
	_ = sink
}
