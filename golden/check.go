package golden

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Ravenslofty/gpawoo2/fma"
)

// Mismatch is a case the unit got wrong.
type Mismatch struct {
	Case
	Got uint32
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%v: got %08x", m.Case, m.Got)
}

// Report is the outcome of checking some cases.
type Report struct {
	Checked    int
	Mismatches []Mismatch
}

// OK reports whether every case passed.
func (r Report) OK() bool { return len(r.Mismatches) == 0 }

// CheckOptions tune Check. The zero value is fine.
type CheckOptions struct {
	// Workers is the number of chunks checked at once. Zero means
	// GOMAXPROCS.
	Workers int
	// Chunk is the number of cases per unit of work. Zero means 1024.
	Chunk int
	// Progress, if not nil, is called with the number of cases in each
	// chunk as it finishes. It may be called from several goroutines
	// at once.
	Progress func(n int)
}

// Check runs every case through u. Mismatches are reported in the same
// order as cases. It only returns an error if ctx is done first.
func Check(ctx context.Context, u fma.Unit, cases []Case, opts CheckOptions) (Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.Chunk
	if chunk <= 0 {
		chunk = 1024
	}

	// each chunk writes only its own slot, so there's nothing to lock.
	found := make([][]Mismatch, (len(cases)+chunk-1)/chunk)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range found {
		lo := i * chunk
		hi := min(lo+chunk, len(cases))
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, c := range cases[lo:hi] {
				if got := u.Eval(c.A, c.B, c.C); got != c.Want {
					found[i] = append(found[i], Mismatch{Case: c, Got: got})
				}
			}
			if opts.Progress != nil {
				opts.Progress(hi - lo)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{Checked: len(cases)}
	for _, ms := range found {
		r.Mismatches = append(r.Mismatches, ms...)
	}
	return r, nil
}

// CheckSuite is Check using the suite's unit.
func CheckSuite(ctx context.Context, s Suite, opts CheckOptions) (Report, error) {
	return Check(ctx, s.Unit(), s.Cases, opts)
}
