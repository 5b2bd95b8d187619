// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"flag"
	"strings"
)

// ParseInterspersed parses args with f, allowing flags and positional
// arguments to be mixed as in "bar --exact --skip barro". flag.FlagSet.Parse
// alone stops at the first positional argument.
//
// Positional arguments are returned in order. A standalone "--" ends flag
// parsing; everything after it is positional. A "--" given as the value of
// a flag, as in "--skip --", does not.
func ParseInterspersed(f *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := f.Parse(args); err != nil {
			return nil, err
		}
		rest := f.Args()
		if terminated(f, args[:len(args)-len(rest)]) {
			return append(pos, rest...), nil
		}
		if len(rest) == 0 {
			return pos, nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}

// terminated reports whether f.Parse stopped consuming flags because of a
// "--" terminator. consumed holds the arguments f.Parse consumed.
func terminated(f *flag.FlagSet, consumed []string) bool {
	for i := 0; i < len(consumed); i++ {
		arg := consumed[i]
		if arg == "--" {
			return true
		}
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if fl := f.Lookup(name); fl != nil && !isBoolFlag(fl) {
			i++ // the next argument is the value
		}
	}
	return false
}

func isBoolFlag(fl *flag.Flag) bool {
	bf, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && bf.IsBoolFlag()
}
