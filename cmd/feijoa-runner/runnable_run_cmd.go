// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/status"
)

// runnableRunCmd implements subcommands.Command to execute one runnable
// and stream its status messages to stdout.
type runnableRunCmd struct {
	rn  runnableFlags
	out io.Writer // stream destination; stdout outside unit tests
}

var _ = subcommands.Command(&runnableRunCmd{})

func newRunnableRunCmd(out io.Writer) *runnableRunCmd {
	return &runnableRunCmd{rn: newRunnableFlags(), out: out}
}

func (*runnableRunCmd) Name() string     { return "runnable-run" }
func (*runnableRunCmd) Synopsis() string { return "execute a runnable, streaming status to stdout" }
func (*runnableRunCmd) Usage() string {
	return `Usage: runnable-run -recipe <file>
       runnable-run -kind <kind> [-uri <uri>] [-param key=value]...

Description:
    Executes the runnable and writes its status stream to stdout as
    newline-delimited JSON. The stream always starts with a started
    message and ends with a finished message carrying the result.

Flag:
`
}

func (c *runnableRunCmd) SetFlags(f *flag.FlagSet) {
	c.rn.SetFlags(f)
}

func (c *runnableRunCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(ctx); err != nil {
		return subcommands.ExitStatus(command.WriteError(os.Stderr, err))
	}
	return subcommands.ExitSuccess
}

func (c *runnableRunCmd) run(ctx context.Context) error {
	rn, err := c.rn.runnable()
	if err != nil {
		return command.NewStatusErrorf(statusBadArgs, "%v", err)
	}
	r, ok := c.rn.registry().Lookup(rn.Kind())
	if !ok {
		return command.NewStatusErrorf(statusBadArgs, "no runner registered for kind %q", rn.Kind())
	}
	mw := status.NewMessageWriter(c.out)
	for msg := range r.Run(ctx, rn) {
		if err := mw.WriteMessage(&msg); err != nil {
			return command.NewStatusErrorf(statusError, "failed to write message: %v", err)
		}
	}
	return nil
}
