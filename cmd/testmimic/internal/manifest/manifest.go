// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package manifest builds trials from a YAML description.
//
// A manifest looks like this:
//
//	trials:
//	  - name: foo
//	  - name: bar
//	    fail: expected 1, got 2
//	  - name: qux
//	    skippable: true
//	    ignore: very valid reason
//	  - name: sort
//	    tag: perf
//	    bench: {avg: 1200, variance: 30}
//
// Each entry describes what its action does when run: sleep for a while,
// then panic, fail or succeed.
package manifest

import (
	"context"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"go.chromium.org/testmimic/errors"
	"go.chromium.org/testmimic/trial"
)

// Entry describes a single trial.
type Entry struct {
	Name    string `yaml:"name"`
	Tag     string `yaml:"tag"`
	Ignored bool   `yaml:"ignored"`

	// Fail is the failure message. An empty string means the action succeeds.
	Fail string `yaml:"fail"`
	// Panic is a value to panic with. An empty string means no panic.
	Panic string `yaml:"panic"`
	// Sleep is a duration to wait before finishing, in time.ParseDuration syntax.
	Sleep string `yaml:"sleep"`

	Skippable bool `yaml:"skippable"`
	// Ignore, if set, makes a skippable trial end up ignored with this reason.
	Ignore *string `yaml:"ignore"`

	Bench *Bench `yaml:"bench"`
}

// Bench holds the numbers reported by a benchmark entry.
type Bench struct {
	Avg      uint64 `yaml:"avg"`
	Variance uint64 `yaml:"variance"`
}

// Manifest is the top-level document.
type Manifest struct {
	Trials []Entry `yaml:"trials"`
}

// Load reads the manifest at path and builds its trials.
func Load(path string) ([]*trial.Trial, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	ts, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "bad manifest %s", path)
	}
	return ts, nil
}

// Parse validates a manifest and builds its trials in order.
func Parse(b []byte) ([]*trial.Trial, error) {
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.UnmarshalStrict(b, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}

	ts := make([]*trial.Trial, 0, len(m.Trials))
	for _, e := range m.Trials {
		t, err := e.build()
		if err != nil {
			return nil, errors.Wrapf(err, "trial %s", e.Name)
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// build returns the trial described by e.
func (e *Entry) build() (*trial.Trial, error) {
	var sleep time.Duration
	if e.Sleep != "" {
		d, err := time.ParseDuration(e.Sleep)
		if err != nil {
			return nil, errors.Wrap(err, "bad sleep")
		}
		if d < 0 {
			return nil, errors.Errorf("negative sleep %v", d)
		}
		sleep = d
	}

	opts := []trial.Option{trial.WithTag(e.Tag), trial.WithIgnored(e.Ignored)}

	// body runs the common part of every action.
	body := func(ctx context.Context) error {
		if sleep > 0 {
			tm := time.NewTimer(sleep)
			defer tm.Stop()
			select {
			case <-tm.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if e.Panic != "" {
			panic(e.Panic)
		}
		if e.Fail != "" {
			return errors.New(e.Fail)
		}
		return nil
	}

	switch {
	case e.Bench != nil:
		m := *e.Bench
		return trial.Bench(e.Name, func(ctx context.Context, testMode bool) (*trial.Measurement, error) {
			if err := body(ctx); err != nil {
				return nil, err
			}
			if testMode {
				return nil, nil
			}
			return &trial.Measurement{Avg: m.Avg, Variance: m.Variance}, nil
		}, opts...), nil
	case e.Skippable:
		ignore := e.Ignore
		return trial.Skippable(e.Name, func(ctx context.Context) (trial.Completion, error) {
			if err := body(ctx); err != nil {
				return trial.Completed, err
			}
			if ignore != nil {
				return trial.IgnoredBecause(*ignore), nil
			}
			return trial.Completed, nil
		}, opts...), nil
	default:
		return trial.Test(e.Name, body, opts...), nil
	}
}
