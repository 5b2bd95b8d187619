// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package trial

// Registry holds trials in registration order.
//
// Any trial is accepted. Trials sharing a tagged name, or having an empty
// name, are kept as separate entries and run separately.
type Registry struct {
	allTrials  []*Trial
	names      map[string]struct{} // tagged names of registered trials
	duplicates []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Add appends trials to the registry.
func (r *Registry) Add(ts ...*Trial) {
	for _, t := range ts {
		key := t.TaggedName()
		if _, ok := r.names[key]; ok {
			r.duplicates = append(r.duplicates, key)
		}
		r.allTrials = append(r.allTrials, t)
		r.names[key] = struct{}{}
	}
}

// All returns the registered trials in registration order.
func (r *Registry) All() []*Trial {
	return append(([]*Trial)(nil), r.allTrials...)
}

// Len returns the number of registered trials.
func (r *Registry) Len() int {
	return len(r.allTrials)
}

// Duplicates returns the tagged names that were added more than once, once
// per extra registration.
func (r *Registry) Duplicates() []string {
	return append(([]string)(nil), r.duplicates...)
}
