// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil quotes arguments for display as shell command lines.
package shutil

import (
	"strings"
)

// isSafe reports whether r may appear unquoted in a shell word. '=' is only
// safe after the first character; a leading '=' triggers expansion in zsh.
func isSafe(r rune, first bool) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case strings.ContainsRune("-_@%+:,./", r):
		return true
	case r == '=':
		return !first
	}
	return false
}

// Escape quotes s so that a POSIX shell reads it back as a single word.
// Words that need no quoting are returned unchanged.
func Escape(s string) string {
	safe := s != ""
	for i, r := range s {
		if !isSafe(r, i == 0) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// EscapeSlice quotes each of args and joins them with spaces.
func EscapeSlice(args []string) string {
	words := make([]string, len(args))
	for i, a := range args {
		words[i] = Escape(a)
	}
	return strings.Join(words, " ")
}

// CommandLine returns a copy-pasteable command line running prog with args.
func CommandLine(prog string, args ...string) string {
	return EscapeSlice(append([]string{prog}, args...))
}
