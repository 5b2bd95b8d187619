// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package manifest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/testmimic/testutil"
	"go.chromium.org/testmimic/trial"
)

const allPassing = `
trials:
  - name: foo
  - name: bar
  - name: barro
  - name: baz
    skippable: true
  - name: qux
    skippable: true
    ignore: very valid reason
  - name: quux
    skippable: true
    ignore: ""
`

func TestParse(t *testing.T) {
	ts, err := Parse([]byte(allPassing))
	if err != nil {
		t.Fatal("Parse failed: ", err)
	}

	var got []string
	var outcomes []trial.Outcome
	for _, tr := range ts {
		got = append(got, tr.Name()+":"+tr.Kind().String())
		outcomes = append(outcomes, tr.Invoke(context.Background(), true))
	}
	if diff := cmp.Diff(got, []string{"foo:test", "bar:test", "barro:test", "baz:test", "qux:test", "quux:test"}); diff != "" {
		t.Errorf("Trials mismatch (-got +want):\n%s", diff)
	}
	want := []trial.Outcome{
		trial.Pass(), trial.Pass(), trial.Pass(), trial.Pass(),
		trial.Ignore("very valid reason"), trial.Ignore(""),
	}
	if diff := cmp.Diff(outcomes, want); diff != "" {
		t.Errorf("Outcomes mismatch (-got +want):\n%s", diff)
	}
	if ts[3].Kind() != trial.KindSkippable {
		t.Errorf("baz has kind %v; want skippable", ts[3].Kind())
	}
}

func TestParseBehaviors(t *testing.T) {
	ts, err := Parse([]byte(`
trials:
  - name: fails
    fail: expected 1, got 2
  - name: sort
    tag: perf
    bench: {avg: 1200, variance: 30}
  - name: slow
    ignored: true
    sleep: 1ms
  - name: boom
    panic: kaboom
`))
	if err != nil {
		t.Fatal("Parse failed: ", err)
	}
	if len(ts) != 4 {
		t.Fatalf("Parse returned %d trials; want 4", len(ts))
	}

	ctx := context.Background()
	if diff := cmp.Diff(ts[0].Invoke(ctx, true), trial.Fail("expected 1, got 2")); diff != "" {
		t.Errorf("fails outcome mismatch (-got +want):\n%s", diff)
	}
	if got := ts[1].TaggedName(); got != "[perf] sort" {
		t.Errorf("TaggedName() = %q; want %q", got, "[perf] sort")
	}
	if diff := cmp.Diff(ts[1].Invoke(ctx, false), trial.Measure(trial.Measurement{Avg: 1200, Variance: 30})); diff != "" {
		t.Errorf("sort outcome mismatch (-got +want):\n%s", diff)
	}
	if !ts[2].IsIgnored() {
		t.Error("slow is not marked ignored")
	}
	if diff := cmp.Diff(ts[2].Invoke(ctx, true), trial.Pass()); diff != "" {
		t.Errorf("slow outcome mismatch (-got +want):\n%s", diff)
	}

	defer func() {
		if r := recover(); r != "kaboom" {
			t.Errorf("boom panicked with %v; want kaboom", r)
		}
	}()
	ts[3].Invoke(ctx, true)
}

func TestSleepHonorsContext(t *testing.T) {
	ts, err := Parse([]byte("trials:\n  - name: forever\n    sleep: 1h\n"))
	if err != nil {
		t.Fatal("Parse failed: ", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if got := ts[0].Invoke(ctx, true); got.Status != trial.Failed {
		t.Errorf("Invoke = %v; want failed on deadline", got)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want string
	}{
		{"not yaml", "trials: [", "failed to parse YAML"},
		{"empty", "", "validation failed"},
		{"no trials key", "tests: []", "validation failed"},
		{"unknown key", "trials:\n  - name: a\n    retries: 3\n", "validation failed"},
		{"missing name", "trials:\n  - fail: x\n", "validation failed"},
		{"empty name", "trials:\n  - name: \"\"\n", "validation failed"},
		{"wrong type", "trials:\n  - name: a\n    ignored: maybe\n", "validation failed"},
		{"ignore without skippable", "trials:\n  - name: a\n    ignore: x\n", "validation failed"},
		{"bench and skippable", "trials:\n  - name: a\n    skippable: true\n    bench: {avg: 1}\n", "validation failed"},
		{"negative avg", "trials:\n  - name: a\n    bench: {avg: -1}\n", "validation failed"},
		{"bad sleep", "trials:\n  - name: a\n    sleep: soon\n", "trial a: bad sleep"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatal("Parse unexpectedly succeeded")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Parse error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"good.yaml": allPassing,
		"bad.yaml":  "trials: {}\n",
	}); err != nil {
		t.Fatal(err)
	}

	ts, err := Load(filepath.Join(td, "good.yaml"))
	if err != nil {
		t.Fatal("Load failed: ", err)
	}
	if len(ts) != 6 {
		t.Errorf("Load returned %d trials; want 6", len(ts))
	}

	if _, err := Load(filepath.Join(td, "bad.yaml")); err == nil {
		t.Error("Load accepted an invalid manifest")
	}
	if _, err := Load(filepath.Join(td, "missing.yaml")); err == nil {
		t.Error("Load accepted a missing file")
	}
}
