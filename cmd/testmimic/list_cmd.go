// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"

	"github.com/google/subcommands"

	"go.chromium.org/testmimic/cmd/testmimic/internal/manifest"
	"go.chromium.org/testmimic/harness"
	"go.chromium.org/testmimic/internal/command"
)

// listCmd implements subcommands.Command to support listing trials.
type listCmd struct {
	args   harness.Arguments
	stdout io.Writer
	stderr io.Writer
}

var _ subcommands.Command = &listCmd{}

func newListCmd(stdout, stderr io.Writer) *listCmd {
	return &listCmd{stdout: stdout, stderr: stderr}
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list trials" }
func (*listCmd) Usage() string {
	return `list [flag]... <manifest> [filter]...:
	Lists trials from a YAML manifest matched by the filters.
`
}

func (lc *listCmd) SetFlags(f *flag.FlagSet) {
	lc.args.SetFlags(f)
}

func (lc *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, ok := parseManifestArgs(f, &lc.args, lc.stderr, lc.Usage())
	if !ok {
		return subcommands.ExitUsageError
	}
	lc.args.List = true

	trials, err := manifest.Load(path)
	if err != nil {
		return subcommands.ExitStatus(command.WriteError(lc.stderr, command.NewStatusErrorf(statusBadArgs, "%v", err)))
	}
	if _, err := harness.Run(ctx, &lc.args, trials, lc.stdout); err != nil {
		return subcommands.ExitStatus(command.WriteError(lc.stderr, err))
	}
	return subcommands.ExitSuccess
}
