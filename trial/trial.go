// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package trial defines the trials run by the harness and the values they
// resolve to.
//
// A trial is a named action of one of three kinds:
//
//	trial.Test("parse/empty", func(ctx context.Context) error { ... })
//	trial.Skippable("net/ipv6", func(ctx context.Context) (trial.Completion, error) { ... })
//	trial.Bench("hash/sha256", func(ctx context.Context, testMode bool) (*trial.Measurement, error) { ... })
//
// Each trial runs at most once. Running a trial produces an Outcome, and
// Outcomes of a run are folded into a Conclusion.
package trial

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Kind identifies which action a Trial carries.
type Kind int

const (
	// KindTest is a trial whose action reports success or failure.
	KindTest Kind = iota
	// KindSkippable is a trial whose action may decide at run time to be ignored.
	KindSkippable
	// KindBench is a benchmark trial, which may report a Measurement.
	KindBench
)

// String returns the label used for the kind in listings.
func (k Kind) String() string {
	if k == KindBench {
		return "bench"
	}
	return "test"
}

// TestFunc is the action of a KindTest trial. A nil error means success.
type TestFunc func(ctx context.Context) error

// SkippableFunc is the action of a KindSkippable trial.
type SkippableFunc func(ctx context.Context) (Completion, error)

// BenchFunc is the action of a KindBench trial. testMode is true when the
// benchmark should run its body once as a test instead of measuring it. A nil
// Measurement means the benchmark passed without reporting numbers.
type BenchFunc func(ctx context.Context, testMode bool) (*Measurement, error)

// Trial is a single named unit of work.
//
// Trials are created once before a run and are not modified afterwards,
// except that the action is consumed by the first call to Invoke.
type Trial struct {
	name    string
	tag     string
	ignored bool
	kind    Kind

	testFn      TestFunc
	skippableFn SkippableFunc
	benchFn     BenchFunc

	ran atomic.Bool
}

// Option customizes a Trial at construction.
type Option func(t *Trial)

// WithTag sets a tag that is shown as "[tag] name" in reports and matched by
// filters.
func WithTag(tag string) Option {
	return func(t *Trial) { t.tag = tag }
}

// WithIgnored marks the trial as ignored unless ignored trials are requested
// explicitly.
func WithIgnored(ignored bool) Option {
	return func(t *Trial) { t.ignored = ignored }
}

func newTrial(name string, kind Kind, opts []Option) *Trial {
	t := &Trial{name: name, kind: kind}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Test returns a trial that runs f.
func Test(name string, f TestFunc, opts ...Option) *Trial {
	t := newTrial(name, KindTest, opts)
	t.testFn = f
	return t
}

// Skippable returns a trial that runs f and may end up ignored.
func Skippable(name string, f SkippableFunc, opts ...Option) *Trial {
	t := newTrial(name, KindSkippable, opts)
	t.skippableFn = f
	return t
}

// Bench returns a benchmark trial that runs f.
func Bench(name string, f BenchFunc, opts ...Option) *Trial {
	t := newTrial(name, KindBench, opts)
	t.benchFn = f
	return t
}

// Name returns the trial name.
func (t *Trial) Name() string { return t.name }

// Tag returns the trial tag, possibly empty.
func (t *Trial) Tag() string { return t.tag }

// Kind returns the kind of the trial.
func (t *Trial) Kind() Kind { return t.kind }

// IsIgnored reports whether the trial was marked ignored at construction.
func (t *Trial) IsIgnored() bool { return t.ignored }

// IsBench reports whether t is a benchmark.
func (t *Trial) IsBench() bool { return t.kind == KindBench }

// TaggedName returns the name as it appears in reports: "[tag] name" if the
// trial has a tag, or just the name otherwise.
func (t *Trial) TaggedName() string {
	if t.tag == "" {
		return t.name
	}
	return fmt.Sprintf("[%s] %s", t.tag, t.name)
}

// Invoke runs the trial action and maps its result to an Outcome.
//
// The action is run at most once. Later calls return a Failed outcome without
// running anything. Invoke does not recover panics; callers that need
// isolation should call it through usercode.SafeCall.
func (t *Trial) Invoke(ctx context.Context, testMode bool) Outcome {
	if t.ran.Swap(true) {
		return Fail(fmt.Sprintf("trial %s already ran", t.name))
	}

	switch t.kind {
	case KindTest:
		if err := t.testFn(ctx); err != nil {
			return Fail(err.Error())
		}
		return Pass()
	case KindSkippable:
		c, err := t.skippableFn(ctx)
		if err != nil {
			return Fail(err.Error())
		}
		if c.Ignored {
			return Ignore(c.Reason)
		}
		return Pass()
	case KindBench:
		m, err := t.benchFn(ctx, testMode)
		if err != nil {
			return Fail(err.Error())
		}
		if m == nil {
			return Pass()
		}
		return Measure(*m)
	default:
		return Fail(fmt.Sprintf("trial %s has unknown kind %d", t.name, t.kind))
	}
}

// Completion is the result of a skippable action.
type Completion struct {
	// Ignored is true if the trial decided not to run to completion.
	Ignored bool
	// Reason explains why the trial was ignored. It may be empty.
	Reason string
}

// Completed is the Completion of a skippable action that ran to the end.
var Completed = Completion{}

// IgnoredBecause returns the Completion of a skippable action that was
// ignored for reason.
func IgnoredBecause(reason string) Completion {
	return Completion{Ignored: true, Reason: reason}
}
