// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package trial

// Status classifies an Outcome.
type Status int

const (
	Passed Status = iota
	Failed
	Ignored
	Measured
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Ignored:
		return "ignored"
	case Measured:
		return "measured"
	default:
		return "unknown"
	}
}

// Measurement is a benchmark result in nanoseconds per iteration.
type Measurement struct {
	Avg      uint64
	Variance uint64
}

// Outcome is the resolved result of a single trial.
type Outcome struct {
	Status Status
	// Message describes a failure. Only set for Failed.
	Message string
	// Reason explains an ignored trial. Only set for Ignored, and may be empty.
	Reason string
	// Measurement is only set for Measured.
	Measurement Measurement
}

// Pass returns a Passed outcome.
func Pass() Outcome { return Outcome{Status: Passed} }

// Fail returns a Failed outcome carrying msg.
func Fail(msg string) Outcome { return Outcome{Status: Failed, Message: msg} }

// Ignore returns an Ignored outcome carrying reason.
func Ignore(reason string) Outcome { return Outcome{Status: Ignored, Reason: reason} }

// Measure returns a Measured outcome carrying m.
func Measure(m Measurement) Outcome { return Outcome{Status: Measured, Measurement: m} }
