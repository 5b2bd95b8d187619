// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/internal/logging"
	"go.chromium.org/testmimic/internal/logging/loggingtest"
	"go.chromium.org/testmimic/trial"
)

// outputSink records events passed to OutputStream.
type outputSink struct {
	events []string
	// failOn makes TrialStart fail for the trial with this name.
	failOn string
}

func (s *outputSink) TrialStart(t *trial.Trial) error {
	if t.Name() == s.failOn {
		return errors.New("write failed")
	}
	s.events = append(s.events, "start "+t.Name())
	return nil
}

func (s *outputSink) TrialEnd(t *trial.Trial, o trial.Outcome) error {
	ev := fmt.Sprintf("end %s %v", t.Name(), o.Status)
	switch o.Status {
	case trial.Failed:
		ev += ": " + o.Message
	case trial.Ignored:
		ev += ": " + o.Reason
	}
	s.events = append(s.events, ev)
	return nil
}

func pass(ctx context.Context) error { return nil }

func TestRunTrials(t *testing.T) {
	trials := []*trial.Trial{
		trial.Test("pass", pass),
		trial.Test("fail", func(ctx context.Context) error { return errors.New("boom") }),
		trial.Skippable("skip", func(ctx context.Context) (trial.Completion, error) {
			return trial.IgnoredBecause("no device"), nil
		}),
		trial.Bench("bench", func(ctx context.Context, testMode bool) (*trial.Measurement, error) {
			return &trial.Measurement{Avg: 10}, nil
		}),
	}
	var out outputSink
	if err := RunTrials(context.Background(), trials, &out, &Config{Threads: 1}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	want := []string{
		"start pass", "end pass passed",
		"start fail", "end fail failed: boom",
		"start skip", "end skip ignored: no device",
		"start bench", "end bench measured",
	}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
}

func TestRunTrialsOrderPreserved(t *testing.T) {
	const n = 8
	var mu sync.Mutex
	var finished []string
	var trials []*trial.Trial
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("t%d", i)
		delay := time.Duration(n-i) * 5 * time.Millisecond
		trials = append(trials, trial.Test(name, func(ctx context.Context) error {
			time.Sleep(delay)
			mu.Lock()
			finished = append(finished, name)
			mu.Unlock()
			return nil
		}))
	}

	var out outputSink
	if err := RunTrials(context.Background(), trials, &out, &Config{Threads: n}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}

	var want []string
	for i := 0; i < n; i++ {
		want = append(want, fmt.Sprintf("start t%d", i), fmt.Sprintf("end t%d passed", i))
	}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
	if len(finished) != n || finished[0] == "t0" {
		t.Errorf("Trials finished in order %v; want them to run concurrently", finished)
	}
}

func TestRunTrialsThreadLimit(t *testing.T) {
	const threads = 2
	var running, peak int32
	var trials []*trial.Trial
	for i := 0; i < 6; i++ {
		trials = append(trials, trial.Test(fmt.Sprintf("t%d", i), func(ctx context.Context) error {
			cur := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}))
	}
	var out outputSink
	if err := RunTrials(context.Background(), trials, &out, &Config{Threads: threads}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	if peak > threads {
		t.Errorf("Up to %d trials ran at once; want at most %d", peak, threads)
	}
}

func TestRunTrialsPanic(t *testing.T) {
	logger := loggingtest.NewLogger(t, logging.LevelDebug)
	ctx := logging.AttachLogger(context.Background(), logger)

	ran := false
	trials := []*trial.Trial{
		trial.Test("panic", func(ctx context.Context) error { panic("oh no") }),
		trial.Test("after", func(ctx context.Context) error {
			ran = true
			return nil
		}),
	}
	var out outputSink
	if err := RunTrials(ctx, trials, &out, &Config{Threads: 1}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	want := []string{
		"start panic", "end panic failed: test panicked: oh no",
		"start after", "end after passed",
	}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
	if !ran {
		t.Error("Trial after a panicking trial did not run")
	}
	if logs := logger.String(); !strings.Contains(logs, "Trial panic panicked: test panicked: oh no") {
		t.Errorf("Panic was not logged; got logs:\n%s", logs)
	}
}

func TestRunTrialsGoexit(t *testing.T) {
	trials := []*trial.Trial{
		trial.Test("goexit", func(ctx context.Context) error {
			runtime.Goexit()
			return nil
		}),
	}
	var out outputSink
	if err := RunTrials(context.Background(), trials, &out, &Config{Threads: 1}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	want := []string{"start goexit", "end goexit failed: trial exited without returning"}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
}

func TestRunTrialsTimeout(t *testing.T) {
	ch := make(chan struct{})
	defer close(ch)

	trials := []*trial.Trial{
		trial.Test("stuck", func(ctx context.Context) error {
			<-ch // ignore the deadline
			return nil
		}),
		trial.Test("polite", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}
	var out outputSink
	cfg := &Config{Threads: 1, Timeout: time.Millisecond, GracePeriod: time.Millisecond}
	if err := RunTrials(context.Background(), trials, &out, cfg); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	want := []string{
		"start stuck", "end stuck failed: stuck did not return on timeout",
		"start polite", "end polite failed: context deadline exceeded",
	}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
}

func TestRunTrialsIgnored(t *testing.T) {
	ran := false
	trials := []*trial.Trial{
		trial.Test("static", func(ctx context.Context) error {
			ran = true
			return nil
		}, trial.WithIgnored(true)),
		trial.Test("normal", pass),
	}
	var out outputSink
	cfg := &Config{Threads: 1, IsIgnored: (*trial.Trial).IsIgnored}
	if err := RunTrials(context.Background(), trials, &out, cfg); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	want := []string{"start static", "end static ignored: ", "start normal", "end normal passed"}
	if diff := cmp.Diff(out.events, want); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
	if ran {
		t.Error("Ignored trial was run")
	}
}

func TestRunTrialsOutputError(t *testing.T) {
	var ran int32
	count := func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}
	trials := []*trial.Trial{
		trial.Test("a", count),
		trial.Test("b", count),
		trial.Test("c", count),
	}
	out := outputSink{failOn: "b"}
	if err := RunTrials(context.Background(), trials, &out, &Config{Threads: 1}); err == nil {
		t.Fatal("RunTrials succeeded despite an output error")
	}
	if diff := cmp.Diff(out.events, []string{"start a", "end a passed"}); diff != "" {
		t.Errorf("Events mismatch (-got +want):\n%s", diff)
	}
}

func TestRunTrialsEmpty(t *testing.T) {
	var out outputSink
	if err := RunTrials(context.Background(), nil, &out, &Config{}); err != nil {
		t.Fatal("RunTrials failed: ", err)
	}
	if len(out.events) != 0 {
		t.Errorf("Got events %v; want none", out.events)
	}
}
