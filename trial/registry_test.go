// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package trial_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/testmimic/trial"
)

func names(ts []*trial.Trial) []string {
	var ns []string
	for _, t := range ts {
		ns = append(ns, t.TaggedName())
	}
	return ns
}

func TestRegistryAdd(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	r := trial.NewRegistry()
	r.Add(trial.Test("foo", noop), trial.Test("bar", noop))
	// The same name with a different tag is a different trial.
	r.Add(trial.Test("foo", noop, trial.WithTag("slow")))
	if diff := cmp.Diff(names(r.All()), []string{"foo", "bar", "[slow] foo"}); diff != "" {
		t.Errorf("All() mismatch (-got +want):\n%s", diff)
	}
	if got := r.Len(); got != 3 {
		t.Errorf("Len() = %d; want 3", got)
	}
	if got := r.Duplicates(); len(got) != 0 {
		t.Errorf("Duplicates() = %q; want none", got)
	}
}

func TestRegistryAddDuplicate(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	r := trial.NewRegistry()
	r.Add(trial.Test("foo", noop), trial.Test("foo", noop))
	r.Add(trial.Test("", noop), trial.Test("", noop))

	if diff := cmp.Diff(names(r.All()), []string{"foo", "foo", "", ""}); diff != "" {
		t.Errorf("All() mismatch (-got +want):\n%s", diff)
	}
	if got := r.Len(); got != 4 {
		t.Errorf("Len() = %d; want 4", got)
	}
	if diff := cmp.Diff(r.Duplicates(), []string{"foo", ""}); diff != "" {
		t.Errorf("Duplicates() mismatch (-got +want):\n%s", diff)
	}
}
