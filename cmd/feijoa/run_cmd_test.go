// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/logging/loggingtest"
)

// executeRunCmd creates a runCmd and executes it using the supplied args
// and logger.
func executeRunCmd(t *testing.T, args []string, logger logging.Logger) subcommands.ExitStatus {
	t.Helper()
	cmd := newRunCmd()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	cmd.SetFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if logger != nil {
		ctx = logging.AttachLogger(ctx, logger)
	}
	return cmd.Execute(ctx, flags)
}

// harnessArgs returns the flags that point the harness at td.
func harnessArgs(td string) []string {
	return []string{
		"-resultsdir", filepath.Join(td, "results"),
		"-workdir", filepath.Join(td, "work"),
		"-testsdir", filepath.Join(td, "tests"),
		"-cachedirs", filepath.Join(td, "cache"),
	}
}

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal("Failed to write script: ", err)
	}
	return path
}

func TestRunMissingExecutable(t *testing.T) {
	if status := executeRunCmd(t, nil, nil); status != subcommands.ExitUsageError {
		t.Errorf("run returned %v; want %v", status, subcommands.ExitUsageError)
	}
}

func TestRun(t *testing.T) {
	td := t.TempDir()
	script := writeScript(t, td, "mytest.sh", "echo ok")
	logger := loggingtest.NewLogger(t, logging.LevelInfo)

	args := append(harnessArgs(td), script)
	if status := executeRunCmd(t, args, logger); status != subcommands.ExitSuccess {
		t.Fatalf("run returned %v; want %v", status, subcommands.ExitSuccess)
	}

	// The job directory is reachable through the "latest" symlink.
	b, err := os.ReadFile(filepath.Join(td, "results", "latest", "results.json"))
	if err != nil {
		t.Fatal("Results were not written: ", err)
	}
	if !strings.Contains(string(b), `"mytest.1"`) {
		t.Errorf("results.json does not mention the test: %s", b)
	}
	if s := logger.String(); !strings.Contains(s, "PASS mytest.1") {
		t.Error("Logs do not report the passing test")
	}
}

func TestRunFailForTests(t *testing.T) {
	td := t.TempDir()
	script := writeScript(t, td, "broken.sh", "exit 1")

	// Executing a failing test is still a successful run by default.
	args := append(harnessArgs(td), script)
	if status := executeRunCmd(t, args, nil); status != subcommands.ExitSuccess {
		t.Errorf("run returned %v; want %v", status, subcommands.ExitSuccess)
	}

	args = append(append(harnessArgs(td), "-failfortests"), script)
	if status := executeRunCmd(t, args, nil); status != subcommands.ExitFailure {
		t.Errorf("run -failfortests returned %v; want %v", status, subcommands.ExitFailure)
	}
}

func TestRunBadConfig(t *testing.T) {
	td := t.TempDir()
	script := writeScript(t, td, "mytest.sh", "true")
	args := append(harnessArgs(td), "-config", filepath.Join(td, "missing.yaml"), script)
	if status := executeRunCmd(t, args, nil); status != subcommands.ExitFailure {
		t.Errorf("run returned %v; want %v", status, subcommands.ExitFailure)
	}
}
