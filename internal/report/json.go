// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"go.chromium.org/testmimic/trial"
)

// jsonEvent is a single line of the JSON report. Field names follow the
// libtest JSON event stream.
type jsonEvent struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Name  string `json:"name,omitempty"`

	TestCount *int `json:"test_count,omitempty"`

	Stdout  string `json:"stdout,omitempty"`
	Message string `json:"message,omitempty"`

	Median    *uint64 `json:"median,omitempty"`
	Deviation *uint64 `json:"deviation,omitempty"`

	Passed      *int     `json:"passed,omitempty"`
	Failed      *int     `json:"failed,omitempty"`
	Ignored     *int     `json:"ignored,omitempty"`
	Measured    *int     `json:"measured,omitempty"`
	FilteredOut *int     `json:"filtered_out,omitempty"`
	ExecTime    *float64 `json:"exec_time,omitempty"`
}

func outcomeEvent(name string, o trial.Outcome) jsonEvent {
	switch o.Status {
	case trial.Failed:
		return jsonEvent{Type: "test", Event: "failed", Name: name, Stdout: o.Message}
	case trial.Ignored:
		return jsonEvent{Type: "test", Event: "ignored", Name: name, Message: o.Reason}
	case trial.Measured:
		m := o.Measurement
		return jsonEvent{Type: "bench", Name: name, Median: &m.Avg, Deviation: &m.Variance}
	default:
		return jsonEvent{Type: "test", Event: "ok", Name: name}
	}
}
