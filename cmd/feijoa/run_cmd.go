// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/internal/job"
	"github.com/feijoa-framework/feijoa/internal/metrics"
	"github.com/feijoa-framework/feijoa/logging"
)

// runCmd implements subcommands.Command to support running command tests.
type runCmd struct {
	cfgFlags     configFlags
	failForTests bool // exit with 1 if any individual tests fail
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd() *runCmd {
	return &runCmd{}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run tests" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... <executable>...

Description:
    Runs each executable as a test through the setup/action/cleanup
    lifecycle and writes results under a fresh job directory.
    Exits with 0 if all tests were executed, even if some of them failed.
    Non-zero exit codes indicate harness-level problems. Callers should
    examine results.json for failing tests, or supply -failfortests to
    override this behavior.

Flag:
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.failForTests, "failfortests", false, "exit with 1 if any tests fail")
	r.cfgFlags.SetFlags(f)
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) == 0 {
		logging.Info(ctx, "Missing test executable.\n\n"+r.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := r.cfgFlags.effective(f)
	if err != nil {
		logging.Info(ctx, "Failed to load config: ", err)
		return subcommands.ExitFailure
	}
	if cfg.MetricsAddr != "" {
		metrics.Serve(ctx, cfg.MetricsAddr)
	}

	j, err := job.New(ctx, cfg)
	if err != nil {
		logging.Info(ctx, "Failed to create job: ", err)
		return subcommands.ExitFailure
	}
	defer j.Close()

	logging.Info(ctx, "Command line: ", strings.Join(os.Args, " "))
	logging.Info(ctx, "Writing results to ", j.ResultsDir())

	sum, err := j.RunTests(ctx, f.Args())
	if err != nil {
		logging.Infof(ctx, "Failed to run tests: %v", err)
		return subcommands.ExitFailure
	}
	if r.failForTests && !sum.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
