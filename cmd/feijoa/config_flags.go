// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"time"

	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/internal/config"
)

// configFlags exposes the harness configuration as command-line flags and
// merges the three configuration sources. Precedence is flags over the
// config file over built-in defaults; only flags the user actually set
// override the file.
type configFlags struct {
	path        string        // -config
	values      config.Config // raw flag values
	timeout     time.Duration // -timeout
	sysinfoCmds []string      // -sysinfocmd, repeated
}

func (c *configFlags) SetFlags(f *flag.FlagSet) {
	def := config.Default()
	f.StringVar(&c.path, "config", "", "path to a YAML harness config file")
	f.StringVar(&c.values.ResultsDir, "resultsdir", def.ResultsDir, "directory where job results are written")
	f.StringVar(&c.values.WorkDir, "workdir", def.WorkDir, "directory where tests get scratch space")
	f.StringVar(&c.values.TestsDir, "testsdir", def.TestsDir, "directory containing test sources")
	f.Var(command.NewListFlag(",", func(v []string) { c.values.CacheDirs = v }, def.CacheDirs),
		"cachedirs", "comma-separated asset cache directories")
	f.Var(command.NewDurationFlag(time.Second, &c.timeout, time.Duration(def.TestTimeout)*time.Second),
		"timeout", "per-test timeout in seconds (0 for none)")
	rf := command.RepeatedFlag(func(v string) error {
		c.sysinfoCmds = append(c.sysinfoCmds, v)
		return nil
	})
	f.Var(&rf, "sysinfocmd", "shell command captured into each test's sysinfo (may be repeated)")
	f.StringVar(&c.values.StatusAddr, "statusaddr", def.StatusAddr, "address the status server listens on")
	f.StringVar(&c.values.MetricsAddr, "metricsaddr", def.MetricsAddr, "address to serve prometheus metrics on (empty to disable)")
	f.StringVar(&c.values.RunnerExecutable, "runner", def.RunnerExecutable, "feijoa-runner executable used by the process spawner")
	f.StringVar(&c.values.DockerImage, "image", def.DockerImage, "image used by the docker spawner")
}

// effective returns the merged configuration. f must be the flag set the
// flags were registered on, after parsing.
func (c *configFlags) effective(f *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if c.path != "" {
		var err error
		if cfg, err = config.Load(c.path, cfg); err != nil {
			return nil, err
		}
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "resultsdir":
			cfg.ResultsDir = c.values.ResultsDir
		case "workdir":
			cfg.WorkDir = c.values.WorkDir
		case "testsdir":
			cfg.TestsDir = c.values.TestsDir
		case "cachedirs":
			cfg.CacheDirs = c.values.CacheDirs
		case "timeout":
			cfg.TestTimeout = int(c.timeout / time.Second)
		case "sysinfocmd":
			cfg.SysinfoCommands = c.sysinfoCmds
		case "statusaddr":
			cfg.StatusAddr = c.values.StatusAddr
		case "metricsaddr":
			cfg.MetricsAddr = c.values.MetricsAddr
		case "runner":
			cfg.RunnerExecutable = c.values.RunnerExecutable
		case "image":
			cfg.DockerImage = c.values.DockerImage
		}
	})
	return cfg, nil
}
