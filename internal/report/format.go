// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format selects how a run is rendered.
type Format int

const (
	// FormatPretty prints one line per trial.
	FormatPretty Format = iota
	// FormatTerse prints one character per trial.
	FormatTerse
	// FormatJSON prints one JSON event per line.
	FormatJSON
)

// FormatNames maps command-line names to formats.
var FormatNames = map[string]int{
	"pretty": int(FormatPretty),
	"terse":  int(FormatTerse),
	"json":   int(FormatJSON),
}

// Color selects whether status words are colored.
type Color int

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

// ColorNames maps command-line names to color settings.
var ColorNames = map[string]int{
	"auto":   int(ColorAuto),
	"always": int(ColorAlways),
	"never":  int(ColorNever),
}

// Styles holds the styles used for status words.
// The zero value prints plain text.
type Styles struct {
	enabled bool
	ok      lipgloss.Style
	failed  lipgloss.Style
	ignored lipgloss.Style
	bench   lipgloss.Style
}

// NewStyles returns Styles writing to w. If color is false, status words are
// printed without escape sequences.
func NewStyles(w io.Writer, color bool) Styles {
	if !color {
		return Styles{}
	}
	// Force ANSI output instead of probing w.
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI))
	return Styles{
		enabled: true,
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")),
		ignored: r.NewStyle().Foreground(lipgloss.Color("3")),
		bench:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

func (s Styles) paint(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}
