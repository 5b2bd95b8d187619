// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package trial

// ExitCodeFailed is the process exit status when a run has failed trials.
const ExitCodeFailed = 101

// Conclusion holds the counters summarizing a run.
//
// For a run over a registry of n trials, the five counters add up to n.
type Conclusion struct {
	NumFilteredOut int
	NumPassed      int
	NumFailed      int
	NumIgnored     int
	NumMeasured    int
}

// Add counts o.
func (c *Conclusion) Add(o Outcome) {
	switch o.Status {
	case Passed:
		c.NumPassed++
	case Failed:
		c.NumFailed++
	case Ignored:
		c.NumIgnored++
	case Measured:
		c.NumMeasured++
	}
}

// Merge adds the counters of other to c.
func (c *Conclusion) Merge(other Conclusion) {
	c.NumFilteredOut += other.NumFilteredOut
	c.NumPassed += other.NumPassed
	c.NumFailed += other.NumFailed
	c.NumIgnored += other.NumIgnored
	c.NumMeasured += other.NumMeasured
}

// Total returns the sum of all counters.
func (c Conclusion) Total() int {
	return c.NumFilteredOut + c.NumPassed + c.NumFailed + c.NumIgnored + c.NumMeasured
}

// HasFailed reports whether any trial failed.
func (c Conclusion) HasFailed() bool {
	return c.NumFailed > 0
}

// ExitCode returns the process exit status for the run: 0 on success and
// ExitCodeFailed if any trial failed.
func (c Conclusion) ExitCode() int {
	if c.HasFailed() {
		return ExitCodeFailed
	}
	return 0
}
