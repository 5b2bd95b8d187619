// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/trial"
)

// OutputStream receives the progress of a run.
//
// Methods are called from a single goroutine in the order of the trials
// passed to RunTrials, regardless of the order in which trials finish.
type OutputStream interface {
	// TrialStart reports that t is the next trial to be reported.
	TrialStart(t *trial.Trial) error
	// TrialEnd reports the outcome of t.
	TrialEnd(t *trial.Trial, o trial.Outcome) error
}

// trialOutputStream wraps OutputStream for a single trial and checks that
// TrialStart and TrialEnd are each reported exactly once, in that order.
type trialOutputStream struct {
	out OutputStream
	t   *trial.Trial

	started bool
	ended   bool
}

func newTrialOutputStream(out OutputStream, t *trial.Trial) *trialOutputStream {
	return &trialOutputStream{out: out, t: t}
}

var (
	errAlreadyStarted = errors.New("trial has already started")
	errNotStarted     = errors.New("trial has not started")
	errAlreadyEnded   = errors.New("trial has already ended")
)

// Start reports that the trial has started.
func (w *trialOutputStream) Start() error {
	if w.started {
		return errAlreadyStarted
	}
	w.started = true
	return w.out.TrialStart(w.t)
}

// End reports the outcome of the trial. After End is called, all methods
// fail with an error.
func (w *trialOutputStream) End(o trial.Outcome) error {
	if !w.started {
		return errNotStarted
	}
	if w.ended {
		return errAlreadyEnded
	}
	w.ended = true
	return w.out.TrialEnd(w.t, o)
}
