// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package planner runs trials on a bounded pool of goroutines and streams
// their outcomes in a stable order.
package planner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/internal/logging"
	"go.chromium.org/testmimic/internal/usercode"
	"go.chromium.org/testmimic/trial"
)

// DefaultGracePeriod is the extra time a trial gets to return after its
// timeout before it is abandoned.
const DefaultGracePeriod = 5 * time.Second

// Config contains details about how the planner should run trials.
type Config struct {
	// Threads is the maximum number of trials running at once. Values below 1
	// are treated as 1.
	Threads int
	// Timeout is the per-trial timeout. Zero means no timeout.
	Timeout time.Duration
	// GracePeriod is the time a trial may keep running after Timeout.
	GracePeriod time.Duration
	// TestMode is passed to benchmark trials.
	TestMode bool
	// IsIgnored, if non-nil, reports whether a trial should be reported as
	// ignored without being run.
	IsIgnored func(t *trial.Trial) bool
}

// RunTrials runs trials, writing outputs to out.
//
// Up to cfg.Threads trials run concurrently. Outcomes are reported to out in
// the order of trials: a trial's outcome is written only after all trials
// before it have been written. A trial that fails or panics does not prevent
// other trials from running.
//
// RunTrials returns an error only if out fails. In that case no further
// trials are started, and RunTrials returns once the running ones have
// finished or been abandoned.
func RunTrials(ctx context.Context, trials []*trial.Trial, out OutputStream, cfg *Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	outcomes := make([]trial.Outcome, len(trials))
	dones := make([]chan struct{}, len(trials))
	for i := range dones {
		dones[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(threads)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, t := range trials {
			i, t := i, t
			g.Go(func() error {
				defer close(dones[i])
				outcomes[i] = runTrial(ctx, t, cfg)
				return nil
			})
		}
	}()

	wait := func() {
		<-launched
		g.Wait()
	}

	for i, t := range trials {
		tout := newTrialOutputStream(out, t)
		if err := tout.Start(); err != nil {
			cancel()
			wait()
			return errors.Wrapf(err, "failed to report start of %s", t.TaggedName())
		}
		<-dones[i]
		if err := tout.End(outcomes[i]); err != nil {
			cancel()
			wait()
			return errors.Wrapf(err, "failed to report end of %s", t.TaggedName())
		}
	}
	wait()
	return nil
}

// runTrial runs a single trial and returns its outcome.
func runTrial(ctx context.Context, t *trial.Trial, cfg *Config) trial.Outcome {
	name := t.TaggedName()
	if err := ctx.Err(); err != nil {
		return trial.Fail(err.Error())
	}
	if cfg.IsIgnored != nil && cfg.IsIgnored(t) {
		logging.Debugf(ctx, "Trial %s ignored", name)
		return trial.Ignore("")
	}

	logging.Debugf(ctx, "Starting trial %s", name)

	var o trial.Outcome
	var returned, panicked bool
	ph := func(val interface{}) {
		// Called on the panicking goroutine, so the error stack reaches the panic site.
		err := errors.Errorf("test panicked: %v", val)
		logging.Debugf(ctx, "Trial %s panicked: %+v", name, err)
		o = trial.Fail(err.Error())
		panicked = true
	}
	if err := usercode.SafeCall(ctx, name, cfg.Timeout, cfg.GracePeriod, ph, func(ctx context.Context) {
		o = t.Invoke(ctx, cfg.TestMode)
		returned = true
	}); err != nil {
		logging.Infof(ctx, "Abandoned trial %s: %v", name, err)
		return trial.Fail(err.Error())
	}
	if !returned && !panicked {
		o = trial.Fail("trial exited without returning")
	}

	logging.Debugf(ctx, "Finished trial %s: %v", name, o.Status)
	return o
}
