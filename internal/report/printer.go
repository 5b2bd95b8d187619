// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package report renders the progress and results of a run.
//
// The pretty and terse formats reproduce the output of the conventional
// compiled-language test runner byte for byte, so it can be compared against
// golden files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/trial"
)

// Failure is a failed trial kept for the failure digest.
type Failure struct {
	Name    string
	Message string
}

// Printer writes a run report to an io.Writer.
type Printer struct {
	w         io.Writer
	format    Format
	styles    Styles
	nameWidth int
	num       *message.Printer
}

// NewPrinter returns a Printer writing to w. trials are the trials that will
// be reported; they determine the width of the name column.
func NewPrinter(w io.Writer, format Format, trials []*trial.Trial, styles Styles) *Printer {
	width := 0
	for _, t := range trials {
		if n := utf8.RuneCountInString(t.TaggedName()); n > width {
			width = n
		}
	}
	return &Printer{
		w:         w,
		format:    format,
		styles:    styles,
		nameWidth: width,
		num:       message.NewPrinter(language.English),
	}
}

// Title prints the header announcing that n trials are about to run.
func (p *Printer) Title(n int) error {
	if p.format == FormatJSON {
		return p.writeJSON(jsonEvent{Type: "suite", Event: "started", TestCount: &n})
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	_, err := fmt.Fprintf(p.w, "\nrunning %d test%s\n", n, plural)
	return err
}

// TrialStart prints the part of a trial's report known before it finishes.
func (p *Printer) TrialStart(t *trial.Trial) error {
	switch p.format {
	case FormatPretty:
		name := t.TaggedName()
		pad := p.nameWidth - utf8.RuneCountInString(name)
		if pad < 0 {
			pad = 0
		}
		_, err := fmt.Fprintf(p.w, "test %s%*s ... ", name, pad, "")
		return err
	case FormatJSON:
		return p.writeJSON(jsonEvent{Type: "test", Event: "started", Name: t.TaggedName()})
	default:
		return nil
	}
}

// TrialEnd prints the outcome of a trial.
func (p *Printer) TrialEnd(t *trial.Trial, o trial.Outcome) error {
	switch p.format {
	case FormatPretty:
		_, err := fmt.Fprintln(p.w, p.prettyStatus(o))
		return err
	case FormatTerse:
		_, err := io.WriteString(p.w, terseStatus(o))
		return err
	case FormatJSON:
		return p.writeJSON(outcomeEvent(t.TaggedName(), o))
	default:
		return errors.Errorf("unknown format %d", p.format)
	}
}

func (p *Printer) prettyStatus(o trial.Outcome) string {
	switch o.Status {
	case trial.Passed:
		return p.styles.paint(p.styles.ok, "ok")
	case trial.Failed:
		return p.styles.paint(p.styles.failed, "FAILED")
	case trial.Ignored:
		s := p.styles.paint(p.styles.ignored, "ignored")
		if o.Reason != "" {
			s += ", " + o.Reason
		}
		return s
	case trial.Measured:
		avg := p.num.Sprintf("%d", o.Measurement.Avg)
		variance := p.num.Sprintf("%d", o.Measurement.Variance)
		return p.styles.paint(p.styles.bench, fmt.Sprintf("bench: %11s ns/iter (+/- %s)", avg, variance))
	default:
		return o.Status.String()
	}
}

func terseStatus(o trial.Outcome) string {
	switch o.Status {
	case trial.Passed:
		return "."
	case trial.Failed:
		return "F"
	case trial.Ignored:
		return "S"
	case trial.Measured:
		return "M"
	default:
		return "?"
	}
}

// Failures prints the failure digest. It prints nothing if fails is empty or
// the format is JSON, where failure messages are part of the trial events.
func (p *Printer) Failures(fails []Failure) error {
	if len(fails) == 0 || p.format == FormatJSON {
		return nil
	}
	ew := &errWriter{w: p.w}
	ew.printf("\nfailures:\n\n")
	for _, f := range fails {
		ew.printf("---- %s ----\n", f.Name)
		if f.Message != "" {
			ew.printf("%s\n", f.Message)
		}
		ew.printf("\n")
	}
	ew.printf("\nfailures:\n")
	for _, f := range fails {
		ew.printf("    %s\n", f.Name)
	}
	return ew.err
}

// Summary prints the final result line. d is the duration of the execution
// phase.
func (p *Printer) Summary(c trial.Conclusion, d time.Duration) error {
	if p.format == FormatJSON {
		ev := jsonEvent{Type: "suite", Event: "ok"}
		if c.HasFailed() {
			ev.Event = "failed"
		}
		ev.Passed, ev.Failed, ev.Ignored, ev.Measured, ev.FilteredOut = &c.NumPassed, &c.NumFailed, &c.NumIgnored, &c.NumMeasured, &c.NumFilteredOut
		secs := d.Seconds()
		ev.ExecTime = &secs
		return p.writeJSON(ev)
	}

	verdict := p.styles.paint(p.styles.ok, "ok")
	if c.HasFailed() {
		verdict = p.styles.paint(p.styles.failed, "FAILED")
	}
	_, err := fmt.Fprintf(p.w, "\ntest result: %s. %d passed; %d failed; %d ignored; %d measured; %d filtered out; finished in %.2fs\n\n",
		verdict, c.NumPassed, c.NumFailed, c.NumIgnored, c.NumMeasured, c.NumFilteredOut, d.Seconds())
	return err
}

// WriteList prints one line per trial in the form "[tag] name: kind".
func WriteList(w io.Writer, trials []*trial.Trial) error {
	for _, t := range trials {
		if _, err := fmt.Fprintf(w, "%s: %s\n", t.TaggedName(), t.Kind()); err != nil {
			return err
		}
	}
	return nil
}

// errWriter remembers the first write error so a sequence of writes can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (p *Printer) writeJSON(ev jsonEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}
	b = append(b, '\n')
	_, err = p.w.Write(b)
	return err
}
