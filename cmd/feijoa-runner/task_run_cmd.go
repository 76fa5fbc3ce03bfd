// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/runner"
)

// taskRunCmd implements subcommands.Command to execute one runnable as a
// task reporting to remote status servers.
type taskRunCmd struct {
	rn         runnableFlags
	id         string
	statusURIs []string
}

var _ = subcommands.Command(&taskRunCmd{})

func newTaskRunCmd() *taskRunCmd {
	return &taskRunCmd{rn: newRunnableFlags()}
}

func (*taskRunCmd) Name() string     { return "task-run" }
func (*taskRunCmd) Synopsis() string { return "execute a runnable as a task" }
func (*taskRunCmd) Usage() string {
	return `Usage: task-run -id <id> -status <host:port>[,<host:port>]... <runnable flags>

Description:
    Executes the runnable and forwards its status stream, augmented with
    the task id, to every status server address. This is the entry point
    spawners use; it is rarely invoked by hand.

Flag:
`
}

func (c *taskRunCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "task identifier attached to every status message")
	f.Var(command.NewListFlag(",", func(v []string) { c.statusURIs = v }, nil),
		"status", "comma-separated status server addresses")
	c.rn.SetFlags(f)
}

func (c *taskRunCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(ctx); err != nil {
		return subcommands.ExitStatus(command.WriteError(os.Stderr, err))
	}
	return subcommands.ExitSuccess
}

func (c *taskRunCmd) run(ctx context.Context) error {
	rn, err := c.rn.runnable()
	if err != nil {
		return command.NewStatusErrorf(statusBadArgs, "%v", err)
	}
	if c.id == "" {
		return command.NewStatusErrorf(statusBadArgs, "task id is required")
	}
	if len(c.statusURIs) == 0 {
		return command.NewStatusErrorf(statusBadArgs, "at least one status server address is required")
	}
	task := runner.NewTask(c.id, rn, c.statusURIs)
	if err := task.Run(ctx, c.rn.registry()); err != nil {
		return command.NewStatusErrorf(statusError, "%v", err)
	}
	return nil
}
