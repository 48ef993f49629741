// package vector runs an FMA unit over whole slices.
package vector

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Ravenslofty/gpawoo2/fma"
)

// batch is the number of elements each goroutine handles.
const batch = 4096

// FMA computes out[i] = a[i]*b[i]+c[i] for each i up to n.
func FMA(a, b, c, out []uint32, n int) {
	Eval(fma.Unit{}, a, b, c, out, n)
}

// Eval is FMA using the provided unit. All of the slices must have at least
// n elements, nothing past n is read or written.
func Eval(u fma.Unit, a, b, c, out []uint32, n int) {
	check(a, b, c, out, n)
	if n < 2*batch {
		evalSimple(u, a, b, c, out, n)
		return
	}
	evalWG(u, a, b, c, out, n)
}

// EvalContext is Eval, but splits the work into batches that stop being
// started once ctx is done. At most workers batches run at a time; if
// workers <= 0 it uses GOMAXPROCS. Elements in batches that never started
// are left untouched.
func EvalContext(ctx context.Context, u fma.Unit, a, b, c, out []uint32, n, workers int) error {
	check(a, b, c, out, n)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i += batch {
		if gctx.Err() != nil {
			// don't bother starting any more.
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			num := min(n-i, batch)
			evalSimple(u, a[i:], b[i:], c[i:], out[i:], num)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func check(a, b, c, out []uint32, n int) {
	if n < 0 || len(a) < n || len(b) < n || len(c) < n || len(out) < n {
		panic(fmt.Errorf("vector: n = %d, len(a) = %d, len(b) = %d, len(c) = %d, len(out) = %d",
			n, len(a), len(b), len(c), len(out)))
	}
}

func evalSimple(u fma.Unit, a, b, c, out []uint32, n int) {
	for i := 0; i < n; i++ {
		out[i] = u.Eval(a[i], b[i], c[i])
	}
}

func evalWG(u fma.Unit, a, b, c, out []uint32, n int) {
	var wg sync.WaitGroup
	for i := 0; i < n; i += batch {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			num := min(n-i, batch)
			evalSimple(u, a[i:], b[i:], c[i:], out[i:], num)
		}()
	}
	wg.Wait()
}
