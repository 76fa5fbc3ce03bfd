// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package job

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/runner"
	"github.com/feijoa-framework/feijoa/status"
)

// taskSpawner executes tasks in this process so the tests cover the real
// status plumbing without a runner binary.
type taskSpawner struct {
	reg *runner.Registry
}

func (s *taskSpawner) Spawn(ctx context.Context, t *runner.Task) error {
	return t.Run(ctx, s.reg)
}

// failSpawner never manages to run anything.
type failSpawner struct{}

func (failSpawner) Spawn(ctx context.Context, t *runner.Task) error {
	return errors.New("isolation mechanism unavailable")
}

func TestRunTasks(t *testing.T) {
	cfg := newConfig(t)
	ctx, j, logger := newJob(t, cfg)
	sp := &taskSpawner{reg: runner.DefaultRegistry(asset.NewCacheFetcher(cfg.CacheDirs))}

	runnables := []*runner.Runnable{
		runner.NewRunnable("noop", "", nil),
		runner.NewRunnable("exec", filepath.Join(t.TempDir(), "no-such-command"), nil),
	}
	sum, err := j.RunTasks(ctx, runnables, sp)
	if err != nil {
		t.Fatal("RunTasks failed: ", err)
	}
	if sum.Pass != 1 || sum.Fail != 0 || sum.Error != 1 {
		t.Errorf("RunTasks counted pass=%d fail=%d error=%d; want 1/0/1", sum.Pass, sum.Fail, sum.Error)
	}

	b, err := os.ReadFile(filepath.Join(j.ResultsDir(), tasksFileName))
	if err != nil {
		t.Fatal("Task results were not written: ", err)
	}
	var rep taskReport
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatal("Failed to parse task results: ", err)
	}
	want := taskReport{
		JobID: j.ID(),
		Total: 2,
		Pass:  1,
		Error: 1,
		Tasks: []*TaskRecord{
			{ID: "1-noop", Result: status.ResultPass},
			{ID: "2-exec", Result: status.ResultError},
		},
	}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("tasks.json mismatch (-want +got):\n%s", diff)
	}

	logs := logger.String()
	for _, want := range []string{"Task 1-noop finished: pass", "Task 2-exec finished: error", "1/2 PASS"} {
		if !strings.Contains(logs, want) {
			t.Errorf("Logs do not contain %q", want)
		}
	}
}

func TestRunTasks_SpawnFailure(t *testing.T) {
	cfg := newConfig(t)
	ctx, j, logger := newJob(t, cfg)

	runnables := []*runner.Runnable{runner.NewRunnable("noop", "", nil)}
	sum, err := j.RunTasks(ctx, runnables, failSpawner{})
	if err != nil {
		t.Fatal("RunTasks failed: ", err)
	}
	if sum.Pass != 0 || sum.Error != 1 {
		t.Errorf("RunTasks counted pass=%d error=%d; want 0/1", sum.Pass, sum.Error)
	}
	logs := logger.String()
	for _, want := range []string{"isolation mechanism unavailable", "Task 1-noop never reported a result"} {
		if !strings.Contains(logs, want) {
			t.Errorf("Logs do not contain %q", want)
		}
	}
}
