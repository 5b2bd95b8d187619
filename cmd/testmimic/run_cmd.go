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
	"go.chromium.org/testmimic/internal/logging"
	"go.chromium.org/testmimic/shutil"
)

const statusBadArgs = 2 // invalid arguments or manifest

// runCmd implements subcommands.Command to support running trials.
type runCmd struct {
	args   harness.Arguments
	stdout io.Writer // destination of the report
	stderr io.Writer // destination of error messages
}

var _ subcommands.Command = &runCmd{}

func newRunCmd(stdout, stderr io.Writer) *runCmd {
	return &runCmd{stdout: stdout, stderr: stderr}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run trials" }
func (*runCmd) Usage() string {
	return `run [flag]... <manifest> [filter]...:
	Runs trials from a YAML manifest. Trials whose names contain any filter
	are run; all trials are run if no filter is given.
`
}

func (rc *runCmd) SetFlags(f *flag.FlagSet) {
	rc.args.SetFlags(f)
}

func (rc *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, ok := parseManifestArgs(f, &rc.args, rc.stderr, rc.Usage())
	if !ok {
		return subcommands.ExitUsageError
	}

	trials, err := manifest.Load(path)
	if err != nil {
		return subcommands.ExitStatus(command.WriteError(rc.stderr, command.NewStatusErrorf(statusBadArgs, "%v", err)))
	}

	res, err := harness.RunDetailed(ctx, &rc.args, trials, rc.stdout)
	if err != nil {
		return subcommands.ExitStatus(command.WriteError(rc.stderr, err))
	}
	if len(res.Failed) > 0 {
		rerun := append([]string{"run", "--exact", path, "--"}, res.Failed...)
		logging.Info(ctx, "To rerun failed trials: ", shutil.CommandLine("testmimic", rerun...))
	}
	return subcommands.ExitStatus(res.Conclusion.ExitCode())
}

// parseManifestArgs parses the arguments left after the flags subcommands
// already parsed. Flags may follow the manifest path, so they are parsed
// again until only positional arguments remain. The first positional argument
// is the manifest path and the rest become filters in args.
func parseManifestArgs(f *flag.FlagSet, args *harness.Arguments, stderr io.Writer, usage string) (path string, ok bool) {
	pos, err := command.ParseInterspersed(f, f.Args())
	if err != nil {
		command.WriteError(stderr, err)
		return "", false
	}
	if len(pos) == 0 {
		command.WriteError(stderr, command.NewStatusErrorf(int(subcommands.ExitUsageError), "missing manifest\n\n%s", usage))
		return "", false
	}
	args.Filters = pos[1:]
	return pos[0], true
}
