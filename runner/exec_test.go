// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feijoa-framework/feijoa/runner"
	"github.com/feijoa-framework/feijoa/status"
	"github.com/feijoa-framework/feijoa/testutil"
)

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNoopRunner(t *testing.T) {
	r := runner.NewNoopRunner()
	msgs := collect(r.Run(context.Background(), runner.NewRunnable("noop", "", nil)))
	if res := result(t, msgs); res != status.ResultPass {
		t.Errorf("Result = %q; want %q", res, status.ResultPass)
	}
}

func TestExecRunner(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)
	script := writeScript(t, td, "hello.sh", "echo hello $GREETING\n")

	r := runner.NewExecRunner()
	rn := runner.NewRunnable("exec", script, map[string]string{"GREETING": "world"})
	msgs := collect(r.Run(context.Background(), rn))

	if res := result(t, msgs); res != status.ResultPass {
		t.Errorf("Result = %q; want %q", res, status.ResultPass)
	}
	if logs := allLogs(msgs); !strings.Contains(logs, "hello world") {
		t.Errorf("Logs do not contain the captured output:\n%s", logs)
	}
}

func TestExecRunner_ExitStatus(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)
	script := writeScript(t, td, "fail.sh", "exit 3\n")

	r := runner.NewExecRunner()
	msgs := collect(r.Run(context.Background(), runner.NewRunnable("exec", script, nil)))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
	if logs := allLogs(msgs); !strings.Contains(logs, "Exit status: 3") {
		t.Errorf("Logs do not contain the exit status:\n%s", logs)
	}
}

func TestExecRunner_NoURI(t *testing.T) {
	r := runner.NewExecRunner()
	msgs := collect(r.Run(context.Background(), runner.NewRunnable("exec", "", nil)))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
	if log := lastLog(t, msgs); !strings.Contains(log, "At least uri should be passed") {
		t.Errorf("Last log = %q; want it to mention the missing uri", log)
	}
}

func TestExecRunner_StartFailure(t *testing.T) {
	r := runner.NewExecRunner()
	msgs := collect(r.Run(context.Background(), runner.NewRunnable("exec", "/this/does/not/exist", nil)))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
}
