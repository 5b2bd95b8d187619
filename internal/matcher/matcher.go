// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package matcher selects the trials to run from command-line patterns.
package matcher

import (
	"strings"

	"golang.org/x/exp/slices"

	"go.chromium.org/testmimic/trial"
)

// Matcher holds patterns to match trials.
//
// A trial matches if it matches any filter (or there are no filters) and
// matches no skip pattern. In exact mode a pattern must equal the trial name
// or its tagged name; otherwise it must be a substring of the tagged name.
// The mode applies to filters and skip patterns alike.
type Matcher struct {
	filters []string
	skips   []string
	exact   bool
}

// New returns a Matcher for the given patterns.
func New(filters, skips []string, exact bool) *Matcher {
	return &Matcher{
		filters: append([]string(nil), filters...),
		skips:   append([]string(nil), skips...),
		exact:   exact,
	}
}

// Match reports whether t passes both the filter and the skip test.
func (m *Matcher) Match(t *trial.Trial) bool {
	name, tagged := t.Name(), t.TaggedName()
	matches := func(pat string) bool {
		if m.exact {
			return pat == name || pat == tagged
		}
		return strings.Contains(tagged, pat)
	}

	if len(m.filters) > 0 && !slices.ContainsFunc(m.filters, matches) {
		return false
	}
	return !slices.ContainsFunc(m.skips, matches)
}

// Options controls Select.
type Options struct {
	Filters []string
	Skips   []string
	Exact   bool
	// OnlyIgnored additionally drops trials that are not marked ignored.
	OnlyIgnored bool
}

// Select returns the trials in ts that match opts, in their original order,
// along with the number of trials left out.
func Select(ts []*trial.Trial, opts Options) (included []*trial.Trial, filteredOut int) {
	m := New(opts.Filters, opts.Skips, opts.Exact)
	for _, t := range ts {
		if opts.OnlyIgnored && !t.IsIgnored() {
			continue
		}
		if !m.Match(t) {
			continue
		}
		included = append(included, t)
	}
	return included, len(ts) - len(included)
}
