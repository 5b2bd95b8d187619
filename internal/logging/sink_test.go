// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging_test

import (
	"bytes"
	"testing"
	"time"

	"go.chromium.org/testmimic/internal/logging"
)

func TestSinkLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSinkLogger(logging.LevelInfo, false, logging.NewWriterSink(&buf))

	logger.Log(logging.LevelDebug, time.Time{}, "dropped")
	logger.Log(logging.LevelInfo, time.Time{}, "kept")

	if got, want := buf.String(), "kept\n"; got != want {
		t.Errorf("Got %q; want %q", got, want)
	}
}

func TestSinkLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(&buf))

	ts := time.Date(2026, 10, 18, 9, 30, 0, 123456000, time.UTC)
	logger.Log(logging.LevelDebug, ts, "Starting trial foo")

	if got, want := buf.String(), "2026-10-18T09:30:00.123456Z Starting trial foo\n"; got != want {
		t.Errorf("Got %q; want %q", got, want)
	}
}
