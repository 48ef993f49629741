package vector

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/fma"
)

var sizes = []int{1, 3, 53, 4095, 4097, 100007}

var units = []fma.Unit{
	{},
	{Overflow: flo.Infinity},
	{NegateProduct: true},
	{NegateResult: true},
}

func evalGroup(u fma.Unit, a, b, c, out []uint32, n int) {
	if err := EvalContext(context.Background(), u, a, b, c, out, n, 0); err != nil {
		panic(err)
	}
}

var evals = []struct {
	name string
	f    func(u fma.Unit, a, b, c, out []uint32, n int)
}{
	{"simple", evalSimple},
	{"____wg", evalWG},
	{"_group", evalGroup},
	{"___top", Eval},
}

func BenchmarkEval(b *testing.B) {
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%6d", size), func(b *testing.B) {
			var (
				x   = randUint32s(size)
				y   = randUint32s(size)
				z   = randUint32s(size)
				out = randUint32s(size)
			)
			for _, f := range evals {
				b.Run(f.name, func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						f.f(fma.Unit{}, x, y, z, out, size)
					}
				})
			}
		})
	}
}

func TestEval(t *testing.T) {
	for _, size := range sizes {
		for ui, u := range units {
			for _, f := range evals {
				if f.name == "simple" {
					continue
				}
				t.Run(fmt.Sprintf("%s/%d/%d", f.name, ui, size), func(t *testing.T) {
					var (
						a    = newPadded("a", size)
						b    = newPadded("b", size)
						c    = newPadded("c", size)
						out  = newPadded("out", size)
						want = make([]uint32, size)
					)
					evalSimple(u, a.slice(), b.slice(), c.slice(), want, size)

					f.f(u, a.slice(), b.slice(), c.slice(), out.slice(), size)

					a.unchanged(t)
					b.unchanged(t)
					c.unchanged(t)
					out.expect(t, want)
				})
			}
		}
	}
}

func TestFMA(t *testing.T) {
	var (
		a   = []uint32{0x3f800000, 0x3f800000, 0x40000000}
		b   = []uint32{0x3f800000, 0x40000000, 0x40000000}
		c   = []uint32{0x3f800000, 0x3f800000, 0x00000000}
		out = make([]uint32, 3)
	)
	FMA(a, b, c, out, 3)
	if diff := cmp.Diff([]uint32{0x40000000, 0x40400000, 0x40800000}, out); diff != "" {
		t.Errorf("FMA: unexpected diff (-want,+got):\n%v", diff)
	}
}

func TestEvalContextCancelled(t *testing.T) {
	const size = 10 * batch
	var (
		a   = randUint32s(size)
		out = make([]uint32, size)
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := EvalContext(ctx, fma.Unit{}, a, a, a, out, size, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("EvalContext with a cancelled context: %v, want: %v", err, context.Canceled)
	}
	if diff := cmp.Diff(make([]uint32, size), out); diff != "" {
		t.Errorf("cancelled EvalContext wrote output:\n%v", diff)
	}
}

func TestShortSlicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	FMA(make([]uint32, 3), make([]uint32, 3), make([]uint32, 2), make([]uint32, 3), 3)
}

// guard is the number of random words either side of a padded slice.
const guard = 13

// padded is n random words with guard words either side, so a test can
// see if anything writes outside the part it was handed.
type padded struct {
	name string
	buf  []uint32
	orig []uint32
}

func newPadded(name string, n int) padded {
	buf := randUint32s(n + 2*guard)
	return padded{name: name, buf: buf, orig: append([]uint32(nil), buf...)}
}

func (p padded) slice() []uint32 {
	return p.buf[guard : len(p.buf)-guard]
}

// expect checks that the slice now holds want and the guards are as they
// were.
func (p padded) expect(t *testing.T, want []uint32) {
	t.Helper()
	full := make([]uint32, 0, len(p.orig))
	full = append(full, p.orig[:guard]...)
	full = append(full, want...)
	full = append(full, p.orig[len(p.orig)-guard:]...)
	if diff := cmp.Diff(full, p.buf); diff != "" {
		t.Errorf("%s: unexpected diff (-want,+got):\n%v", p.name, diff)
	}
}

// unchanged checks that nothing at all was written.
func (p padded) unchanged(t *testing.T) {
	t.Helper()
	p.expect(t, p.orig[guard:len(p.orig)-guard])
}

func randUint32s(n int) []uint32 {
	b := make([]byte, 4*n)
	rand.Read(b)
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out
}
