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

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/internal/job"
	"github.com/feijoa-framework/feijoa/internal/metrics"
	"github.com/feijoa-framework/feijoa/internal/spawner"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/runner"
)

// Spawner kinds selectable via -spawner.
const (
	spawnerProcess = iota
	spawnerDocker
)

// nrunCmd implements subcommands.Command to run runnables as isolated
// tasks reporting over the status protocol.
type nrunCmd struct {
	cfgFlags     configFlags
	recipes      []string          // -recipe, repeated
	kind         string            // -kind of an inline runnable
	uri          string            // -uri of the inline runnable
	params       map[string]string // -param k=v, repeated
	spawnerKind  int               // -spawner
	failForTasks bool              // exit with 1 if any tasks fail
}

var _ = subcommands.Command(&nrunCmd{})

func newNrunCmd() *nrunCmd {
	return &nrunCmd{params: make(map[string]string)}
}

func (*nrunCmd) Name() string     { return "nrun" }
func (*nrunCmd) Synopsis() string { return "run runnables as isolated tasks" }
func (*nrunCmd) Usage() string {
	return `Usage: nrun [flag]...

Description:
    Runs runnables as tasks in isolated environments. Each task reports
    its progress to the job's status server, and the job writes the
    aggregated results under a fresh job directory.

    Runnables come from -recipe files and/or one inline -kind. Exits
    with 0 if all tasks were executed, even if some of them failed,
    unless -failfortasks is supplied.

Flag:
`
}

func (n *nrunCmd) SetFlags(f *flag.FlagSet) {
	rf := command.RepeatedFlag(func(v string) error {
		n.recipes = append(n.recipes, v)
		return nil
	})
	f.Var(&rf, "recipe", "JSON recipe file describing a runnable (may be repeated)")
	f.StringVar(&n.kind, "kind", "", "kind of an inline runnable to run")
	f.StringVar(&n.uri, "uri", "", "uri of the inline runnable")
	pf := command.RepeatedFlag(func(v string) error {
		kv := strings.SplitN(v, "=", 2)
		if len(kv) != 2 {
			return errors.New("must be key=value")
		}
		n.params[kv[0]] = kv[1]
		return nil
	})
	f.Var(&pf, "param", "key=value parameter of the inline runnable (may be repeated)")
	f.Var(command.NewEnumFlag(map[string]int{"process": spawnerProcess, "docker": spawnerDocker},
		func(v int) { n.spawnerKind = v }, "process"),
		"spawner", "isolation mechanism for tasks (process or docker)")
	f.BoolVar(&n.failForTasks, "failfortasks", false, "exit with 1 if any tasks fail")
	n.cfgFlags.SetFlags(f)
}

// runnables assembles the work list from the recipe files and the inline
// kind flags.
func (n *nrunCmd) runnables() ([]*runner.Runnable, error) {
	var rns []*runner.Runnable
	for _, path := range n.recipes {
		rn, err := runner.LoadRecipe(path)
		if err != nil {
			return nil, err
		}
		rns = append(rns, rn)
	}
	if n.kind != "" {
		rns = append(rns, runner.NewRunnable(n.kind, n.uri, n.params))
	}
	if len(rns) == 0 {
		return nil, errors.New("no runnable given; use -recipe or -kind")
	}
	return rns, nil
}

func (n *nrunCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rns, err := n.runnables()
	if err != nil {
		logging.Infof(ctx, "%v\n\n%s", err, n.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := n.cfgFlags.effective(f)
	if err != nil {
		logging.Info(ctx, "Failed to load config: ", err)
		return subcommands.ExitFailure
	}
	if cfg.MetricsAddr != "" {
		metrics.Serve(ctx, cfg.MetricsAddr)
	}

	var sp spawner.Spawner
	switch n.spawnerKind {
	case spawnerDocker:
		ds, err := spawner.NewDockerSpawner(cfg.DockerImage, cfg.CacheDirs)
		if err != nil {
			logging.Info(ctx, "Failed to create docker spawner: ", err)
			return subcommands.ExitFailure
		}
		defer ds.Close()
		sp = ds
	default:
		sp = &spawner.ProcessSpawner{Executable: cfg.RunnerExecutable, CacheDirs: cfg.CacheDirs}
	}

	j, err := job.New(ctx, cfg)
	if err != nil {
		logging.Info(ctx, "Failed to create job: ", err)
		return subcommands.ExitFailure
	}
	defer j.Close()

	logging.Info(ctx, "Command line: ", strings.Join(os.Args, " "))
	logging.Info(ctx, "Writing results to ", j.ResultsDir())

	sum, err := j.RunTasks(ctx, rns, sp)
	if err != nil {
		logging.Infof(ctx, "Failed to run tasks: %v", err)
		return subcommands.ExitFailure
	}
	if n.failForTasks && !sum.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
