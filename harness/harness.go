// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package harness runs a list of trials from command-line arguments and
// reports the results in the format of a conventional test runner.
//
// A test binary typically consists of a main function like this:
//
//	func main() {
//		trials := []*trial.Trial{
//			trial.Test("check_toph", checkToph),
//			trial.Skippable("check_katara", checkKatara),
//		}
//		os.Exit(harness.Main(os.Args[1:], os.Stdout, os.Stderr, trials))
//	}
package harness

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"

	"code.cloudfoundry.org/clock"
	"golang.org/x/term"

	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/internal/command"
	"go.chromium.org/testmimic/internal/logging"
	"go.chromium.org/testmimic/internal/matcher"
	"go.chromium.org/testmimic/internal/planner"
	"go.chromium.org/testmimic/internal/report"
	"go.chromium.org/testmimic/trial"
)

const (
	statusBadArgs     = 2 // invalid arguments or trials
	statusOutputError = 1 // the report could not be written
)

// clk is used to time the execution phase. Tests replace it with a fake.
var clk clock.Clock = clock.NewClock()

// Main parses clArgs, runs trials and writes the report to stdout. Errors are
// written to stderr. It returns the process exit status: 0 if no trial
// failed, trial.ExitCodeFailed if some did, 2 for invalid arguments and 1 if
// the report could not be written.
func Main(clArgs []string, stdout, stderr io.Writer, trials []*trial.Trial) int {
	args, err := ParseArgs(clArgs, stderr)
	if err == flag.ErrHelp {
		return 0
	} else if err != nil {
		return command.WriteError(stderr, err)
	}

	c, err := Run(context.Background(), args, trials, stdout)
	if err != nil {
		return command.WriteError(stderr, err)
	}
	return c.ExitCode()
}

// Run runs trials as configured by args and writes the report to w.
//
// Invalid arguments are reported as a *command.StatusError before any trial
// runs. Trials sharing a name run and are counted separately. Failing trials are not errors;
// they are counted in the returned Conclusion. An error writing the report
// aborts the run.
//
// With args.List, the selected trials are listed instead of run, and the
// returned Conclusion is empty.
func Run(ctx context.Context, args *Arguments, trials []*trial.Trial, w io.Writer) (trial.Conclusion, error) {
	res, err := RunDetailed(ctx, args, trials, w)
	return res.Conclusion, err
}

// Result holds the results of a run.
type Result struct {
	Conclusion trial.Conclusion
	// Failed lists the tagged names of failed trials in report order.
	Failed []string
}

// RunDetailed is like Run, but also returns the names of failed trials.
// The returned Result is never nil.
func RunDetailed(ctx context.Context, args *Arguments, trials []*trial.Trial, w io.Writer) (*Result, error) {
	res := &Result{}
	if err := args.Validate(); err != nil {
		return res, err
	}
	reg := trial.NewRegistry()
	reg.Add(trials...)

	if args.Logfile != "" {
		f, err := os.Create(args.Logfile)
		if err != nil {
			return res, command.NewStatusErrorf(statusBadArgs, "failed to create log file: %v", err)
		}
		defer f.Close()
		ctx = logging.AttachLogger(ctx, logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(f)))
	}

	included, filteredOut := matcher.Select(reg.All(), matcher.Options{
		Filters:     args.Filters,
		Skips:       args.Skip,
		Exact:       args.Exact,
		OnlyIgnored: args.Ignored,
	})

	if args.List {
		if err := report.WriteList(w, included); err != nil {
			return res, wrapOutputError(err)
		}
		return res, nil
	}

	for _, d := range reg.Duplicates() {
		logging.Infof(ctx, "Trial %q is registered more than once", d)
	}
	format := args.format()
	name, _ := formatName(format)
	logging.Infof(ctx, "Running %d trial(s), %d filtered out, format %s", len(included), filteredOut, name)

	styles := report.NewStyles(w, format != FormatJSON && useColor(args.Color, w))
	p := report.NewPrinter(w, format, included, styles)
	if err := p.Title(len(included)); err != nil {
		return res, wrapOutputError(err)
	}

	threads := args.TestThreads
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	out := &runOutput{p: p}
	out.c.NumFilteredOut = filteredOut

	start := clk.Now()
	err := planner.RunTrials(ctx, included, out, &planner.Config{
		Threads:     threads,
		Timeout:     args.TrialTimeout,
		GracePeriod: planner.DefaultGracePeriod,
		TestMode:    !args.Bench,
		IsIgnored:   args.isIgnored,
	})
	res.Conclusion = out.c
	for _, f := range out.fails {
		res.Failed = append(res.Failed, f.Name)
	}
	if err != nil {
		return res, wrapOutputError(err)
	}
	elapsed := clk.Since(start)

	if err := p.Failures(out.fails); err != nil {
		return res, wrapOutputError(err)
	}
	if err := p.Summary(out.c, elapsed); err != nil {
		return res, wrapOutputError(err)
	}
	logging.Infof(ctx, "Finished in %v: %d passed, %d failed, %d ignored, %d measured",
		elapsed, out.c.NumPassed, out.c.NumFailed, out.c.NumIgnored, out.c.NumMeasured)
	return res, nil
}

func wrapOutputError(err error) error {
	return command.NewStatusErrorf(statusOutputError, "failed to write report: %v", err)
}

// useColor decides whether to color output written to w.
func useColor(c Color, w io.Writer) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runOutput implements planner.OutputStream. It forwards outcomes to the
// printer and folds them into a Conclusion. Its methods are called from a
// single goroutine.
type runOutput struct {
	p     *report.Printer
	c     trial.Conclusion
	fails []report.Failure
}

var _ planner.OutputStream = &runOutput{}

func (o *runOutput) TrialStart(t *trial.Trial) error {
	return o.p.TrialStart(t)
}

func (o *runOutput) TrialEnd(t *trial.Trial, oc trial.Outcome) error {
	o.c.Add(oc)
	if oc.Status == trial.Failed {
		o.fails = append(o.fails, report.Failure{Name: t.TaggedName(), Message: oc.Message})
	}
	if err := o.p.TrialEnd(t, oc); err != nil {
		return errors.Wrapf(err, "failed to report %s", t.TaggedName())
	}
	return nil
}
