// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config defines the harness configuration shared by the feijoa
// executables.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/feijoa-framework/feijoa/errors"
)

// Config holds the harness settings. Fields map one-to-one onto the keys
// of the YAML config file.
type Config struct {
	// ResultsDir receives one job-<timestamp>-<id> directory per job.
	ResultsDir string `yaml:"results_dir"`

	// WorkDir holds per-test scratch space.
	WorkDir string `yaml:"work_dir"`

	// TestsDir contains per-test source trees.
	TestsDir string `yaml:"tests_dir"`

	// CacheDirs are probed in order when fetching assets by name.
	CacheDirs []string `yaml:"cache_dirs"`

	// SysinfoCommands are shell commands whose output is captured into
	// each test's sysinfo directory before the run.
	SysinfoCommands []string `yaml:"sysinfo_commands"`

	// TestTimeout bounds each test's action phase, in seconds. Zero
	// means no limit.
	TestTimeout int `yaml:"test_timeout"`

	// StatusAddr is the address the status server listens on. Port 0
	// picks a free port.
	StatusAddr string `yaml:"status_addr"`

	// MetricsAddr, if non-empty, serves Prometheus metrics on this
	// address while a job runs.
	MetricsAddr string `yaml:"metrics_addr"`

	// RunnerExecutable is the feijoa-runner binary used to execute
	// tasks.
	RunnerExecutable string `yaml:"runner_executable"`

	// DockerImage is the image tasks run in when the docker spawner is
	// selected.
	DockerImage string `yaml:"docker_image"`
}

// Default returns the built-in configuration, rooted in the user's home
// directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	base := filepath.Join(home, ".feijoa")
	return &Config{
		ResultsDir:       filepath.Join(base, "job-results"),
		WorkDir:          filepath.Join(base, "work"),
		TestsDir:         filepath.Join(base, "tests"),
		CacheDirs:        []string{filepath.Join(base, "cache")},
		StatusAddr:       "127.0.0.1:0",
		RunnerExecutable: "feijoa-runner",
		DockerImage:      "feijoa/runner:latest",
	}
}

// Load reads the YAML file at path on top of def: keys present in the
// file override def's values, absent keys keep them. Unknown keys are
// rejected. def is not modified.
func Load(path string, def *Config) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg := *def
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &cfg, nil
}
