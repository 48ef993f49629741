// show-fma shows every stage of the FMA unit for one set of operands,
// mostly for debugging golden vectors that don't match.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/fma"
)

var (
	floatFlag      = flag.Bool("float", false, "parse the operands as decimal floats rather than bit patterns")
	overflowFlag   = flag.String("overflow", "saturate", "overflow `mode`: saturate or infinity")
	negProductFlag = flag.Bool("negate-product", false, "compute -(a*b)+c")
	negResultFlag  = flag.Bool("negate-result", false, "flip the sign of the result")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), help)
		fmt.Fprintln(flag.CommandLine.Output(), "\nOptional arguments:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		fail("Need exactly three arguments.")
	}
	o, err := flo.ParseOverflow(*overflowFlag)
	if err != nil {
		fail(err.Error())
	}
	var xs [3]uint32
	for i := range xs {
		x, err := parse(flag.Arg(i), *floatFlag)
		if err != nil {
			fail(err.Error())
		}
		xs[i] = x
	}

	u := fma.Unit{
		Overflow:      o,
		NegateProduct: *negProductFlag,
		NegateResult:  *negResultFlag,
	}
	w := tabwriter.NewWriter(os.Stdout, 11, 1, 1, ' ', 0)
	show(w, xs, u.Trace(xs[0], xs[1], xs[2]))
	if err := w.Flush(); err != nil {
		fail(err.Error())
	}
}

func parse(s string, float bool) (uint32, error) {
	if float {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return 0, err
		}
		return flo.FromFloat(f), nil
	}
	x, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a 32 bit pattern: %w", s, err)
	}
	return uint32(x), nil
}

func showPacked(w io.Writer, name string, x uint32) {
	fmt.Fprintf(w, "%s\t%08x\t%s\t%g\n", name, x, fields(x), flo.Float[float64](x))
}

func showUnpacked(w io.Writer, name string, u flo.Unpacked) {
	fmt.Fprintf(w, "%s\t%v\t\t%g\n", name, u, u.Value())
}

func show(w io.Writer, in [3]uint32, t fma.Trace) {
	for i, u := range []flo.Unpacked{t.A, t.B, t.C} {
		showPacked(w, string(rune('a'+i)), in[i])
		showUnpacked(w, "  unpacked", u)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "raw product\t0x%016x\n", t.RawProduct)
	fmt.Fprintf(w, "product\t%v\n", t.Product)
	fmt.Fprintf(w, "case\t%v\texp diff %d\n", t.Case, t.ExpDiff)
	if t.Case != fma.Passthrough {
		fmt.Fprintf(w, "combined\t%v\n", t.Combined)
	}
	showUnpacked(w, "rounded", t.Rounded)
	fmt.Fprintln(w)
	showPacked(w, "result", t.Result)
}

// fields splits a packed float into its sign, exponent and fraction.
func fields(x uint32) string {
	return fmt.Sprintf("%01b %08b %023b", x>>31, x>>flo.FracBits&0xff, x&(1<<flo.FracBits-1))
}

func fail(reason string) {
	fmt.Fprintln(os.Stderr, reason)
	fmt.Fprintln(os.Stderr, help)
	os.Exit(1)
}

const help = `show-fma shows how the FMA unit computes a*b+c.
Usage:
	show-fma [flags] a b c

Where a, b and c are 32 bit patterns as integer literals in Go syntax, or
decimal floats with -float.
`
