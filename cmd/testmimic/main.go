// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the testmimic executable, which runs trials
// described by a YAML manifest and reports them like a conventional test
// runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"go.chromium.org/testmimic/internal/logging"
)

// Version is overridden at link time.
var Version = "<unknown>"

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions will run before os.Exit makes the program exit
// immediately.
func doMain() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newRunCmd(os.Stdout, os.Stderr), "")
	subcommands.Register(newListCmd(os.Stdout, os.Stderr), "")

	version := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "log per-trial progress to stderr")
	flag.Parse()

	if *version {
		fmt.Printf("testmimic version %s\n", Version)
		return 0
	}

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	ctx := logging.AttachLogger(context.Background(), logging.NewSinkLogger(level, false, logging.NewWriterSink(os.Stderr)))

	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
