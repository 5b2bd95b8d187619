// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.chromium.org/testmimic/internal/command"
	"go.chromium.org/testmimic/internal/report"
	"go.chromium.org/testmimic/trial"
)

// Format selects the report format.
type Format = report.Format

const (
	FormatPretty = report.FormatPretty
	FormatTerse  = report.FormatTerse
	FormatJSON   = report.FormatJSON
)

// Color selects whether the report is colored.
type Color = report.Color

const (
	ColorAuto   = report.ColorAuto
	ColorAlways = report.ColorAlways
	ColorNever  = report.ColorNever
)

// Arguments holds the options of a run. The zero value runs every trial with
// the pretty format and one thread per CPU.
type Arguments struct {
	// Filters are include patterns. A trial is run if it matches any of them,
	// or if there are none.
	Filters []string
	// Skip are exclude patterns. A trial matching any of them is not run.
	Skip []string
	// Exact makes Filters and Skip match whole names instead of substrings.
	Exact bool

	Format Format
	// Quiet is the same as Format = FormatTerse.
	Quiet bool
	Color Color

	// Ignored runs only trials marked ignored.
	Ignored bool
	// IncludeIgnored runs trials marked ignored along with the others.
	IncludeIgnored bool
	// Test runs only non-benchmark trials; benchmarks are reported ignored.
	Test bool
	// Bench runs only benchmarks, measuring them.
	Bench bool

	// List prints the selected trials instead of running them.
	List bool

	// TestThreads is the number of trials run in parallel. Zero means one
	// per CPU.
	TestThreads int
	// TrialTimeout is the timeout of each trial. Zero means no timeout.
	TrialTimeout time.Duration
	// Logfile is a path to write a debug log of the run to.
	Logfile string

	// NoCapture and ShowOutput are accepted for compatibility and ignored.
	NoCapture  bool
	ShowOutput bool
}

// SetFlags registers the flags of a.
func (a *Arguments) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&a.Exact, "exact", false, "match filters and skip patterns exactly")
	skip := command.RepeatedFlag(func(v string) error {
		a.Skip = append(a.Skip, v)
		return nil
	})
	f.Var(&skip, "skip", "skip trials whose names contain `PATTERN` (repeatable)")

	ff := command.NewEnumFlag(report.FormatNames, func(v int) { a.Format = Format(v) }, "pretty")
	f.Var(ff, "format", "report format ("+ff.QuotedValues()+")")
	f.BoolVar(&a.Quiet, "q", false, "shorthand for -quiet")
	f.BoolVar(&a.Quiet, "quiet", false, "print one character per trial")
	cf := command.NewEnumFlag(report.ColorNames, func(v int) { a.Color = Color(v) }, "auto")
	f.Var(cf, "color", "coloring of the report ("+cf.QuotedValues()+")")

	f.BoolVar(&a.Ignored, "ignored", false, "run only ignored trials")
	f.BoolVar(&a.IncludeIgnored, "include-ignored", false, "run ignored and non-ignored trials")
	f.BoolVar(&a.Test, "test", false, "run only tests, not benchmarks")
	f.BoolVar(&a.Bench, "bench", false, "run only benchmarks")
	f.BoolVar(&a.List, "list", false, "list trials instead of running them")

	f.Func("test-threads", "number of trials to run in parallel (default: number of CPUs)", func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("must be positive, got %d", n)
		}
		a.TestThreads = n
		return nil
	})
	f.DurationVar(&a.TrialTimeout, "trial-timeout", 0, "timeout of each trial (0 for none)")
	f.StringVar(&a.Logfile, "logfile", "", "write a debug log of the run to `PATH`")

	f.BoolVar(&a.NoCapture, "nocapture", false, "accepted for compatibility; ignored")
	f.BoolVar(&a.ShowOutput, "show-output", false, "accepted for compatibility; ignored")
}

// Validate checks that a is consistent. It returns a *command.StatusError
// with status 2 on failure.
func (a *Arguments) Validate() error {
	switch {
	case a.Ignored && a.IncludeIgnored:
		return command.NewStatusErrorf(statusBadArgs, "-ignored and -include-ignored are mutually exclusive")
	case a.Test && a.Bench:
		return command.NewStatusErrorf(statusBadArgs, "-test and -bench are mutually exclusive")
	case a.TestThreads < 0:
		return command.NewStatusErrorf(statusBadArgs, "-test-threads must be positive, got %d", a.TestThreads)
	case a.TrialTimeout < 0:
		return command.NewStatusErrorf(statusBadArgs, "-trial-timeout must not be negative, got %v", a.TrialTimeout)
	}
	if _, ok := formatName(a.Format); !ok {
		return command.NewStatusErrorf(statusBadArgs, "unknown format %d", a.Format)
	}
	if !validColor(a.Color) {
		return command.NewStatusErrorf(statusBadArgs, "unknown color setting %d", a.Color)
	}
	return nil
}

// ParseArgs parses command-line arguments into Arguments. Flags and filters
// may be interspersed. Usage is written to stderr on a parse error.
func ParseArgs(clArgs []string, stderr io.Writer) (*Arguments, error) {
	var a Arguments
	f := flag.NewFlagSet("harness", flag.ContinueOnError)
	f.SetOutput(stderr)
	f.Usage = func() {
		fmt.Fprintln(f.Output(), "Usage: [flag]... [FILTER]...")
		f.PrintDefaults()
	}
	a.SetFlags(f)

	filters, err := command.ParseInterspersed(f, clArgs)
	if err == flag.ErrHelp {
		return nil, err
	} else if err != nil {
		return nil, command.NewStatusErrorf(statusBadArgs, "%v", err)
	}
	a.Filters = filters
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// format returns the effective report format.
func (a *Arguments) format() Format {
	if a.Quiet {
		return FormatTerse
	}
	return a.Format
}

// isIgnored reports whether t is reported as ignored without being run.
func (a *Arguments) isIgnored(t *trial.Trial) bool {
	return (t.IsIgnored() && !a.Ignored && !a.IncludeIgnored) ||
		(a.Bench && !t.IsBench()) ||
		(a.Test && t.IsBench())
}

func formatName(f Format) (string, bool) {
	for name, v := range report.FormatNames {
		if Format(v) == f {
			return name, true
		}
	}
	return "", false
}

func validColor(c Color) bool {
	for _, v := range report.ColorNames {
		if Color(v) == c {
			return true
		}
	}
	return false
}
