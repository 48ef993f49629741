// check-vectors runs golden vector files through the FMA unit and reports
// any cases that don't match.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/golden"
)

var errMismatches = errors.New("some cases did not match")

type options struct {
	overflow string
	workers  int
	chunk    int
	progress bool
	verbose  bool
	// maxShown is the number of mismatches logged per file.
	maxShown int
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.overflow, "overflow", "", "override the overflow mode of every file: saturate or infinity")
	fs.IntVarP(&o.workers, "workers", "j", 0, "number of chunks to check at once, 0 for GOMAXPROCS")
	fs.IntVar(&o.chunk, "chunk", 1024, "number of cases per chunk")
	fs.BoolVarP(&o.progress, "progress", "p", false, "show a progress bar per file")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log every file as it is checked")
	fs.IntVar(&o.maxShown, "max-shown", 20, "maximum number of mismatches to log per file, negative for all")
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "check-vectors FILE...",
		Short: "Check golden FMA vectors",
		Long: `check-vectors reads .csv, .txt, .yaml or .yml vector files and checks
every case against the FMA unit. It exits with status 1 if anything doesn't
match.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			var override *flo.Overflow
			if cmd.Flags().Changed("overflow") {
				o, err := flo.ParseOverflow(opts.overflow)
				if err != nil {
					return err
				}
				override = &o
			}
			return run(cmd.Context(), log, cmd.OutOrStdout(), opts, override, args)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, log *logrus.Logger, out io.Writer, opts options, override *flo.Overflow, paths []string) error {
	p := message.NewPrinter(language.English)
	var total, bad int
	for _, path := range paths {
		s, err := golden.ReadFile(path)
		if err != nil {
			return err
		}
		if override != nil {
			s.Overflow = *override
		}
		flog := log.WithFields(logrus.Fields{
			"file":     path,
			"suite":    s.Name,
			"overflow": s.Overflow,
		})
		flog.WithField("cases", len(s.Cases)).Debug("checking")

		copts := golden.CheckOptions{
			Workers: opts.workers,
			Chunk:   opts.chunk,
		}
		var bar *progressbar.ProgressBar
		if opts.progress {
			bar = progressbar.Default(int64(len(s.Cases)), s.Name)
			copts.Progress = func(n int) {
				// a broken terminal shouldn't stop the check.
				if err := bar.Add(n); err != nil {
					flog.WithError(err).Debug("updating progress bar")
				}
			}
		}
		t0 := time.Now()
		r, err := golden.CheckSuite(ctx, s, copts)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		flog.WithField("took", time.Since(t0)).Debug("checked")

		for i, m := range r.Mismatches {
			if opts.maxShown >= 0 && i >= opts.maxShown {
				flog.Warnf("%d more mismatches not shown", len(r.Mismatches)-i)
				break
			}
			flog.WithFields(logrus.Fields{
				"case": m.Case.String(),
				"got":  fmt.Sprintf("%08x", m.Got),
			}).Error("mismatch")
		}
		p.Fprintf(out, "%s: %d cases, %d mismatches\n", path, r.Checked, len(r.Mismatches))
		total += r.Checked
		bad += len(r.Mismatches)
	}
	if len(paths) > 1 {
		p.Fprintf(out, "total: %d cases, %d mismatches\n", total, bad)
	}
	if bad != 0 {
		return errMismatches
	}
	return nil
}

func main() {
	log := logrus.New()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errMismatches) {
			log.Error(err)
		}
		cancel()
		os.Exit(1)
	}
}
