// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package spawner launches feijoa-runner processes that execute tasks in
// isolated environments and report progress over the status protocol.
package spawner

import (
	"context"
	"sort"
	"strings"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/process"
	"github.com/feijoa-framework/feijoa/runner"
)

// Spawner runs a task to completion in an isolated environment.
//
// Spawn blocks until the spawned runner exits. It returns an error only
// when the environment itself fails; a task whose work fails still exits
// cleanly after reporting its result over the status connection, so that
// case is not an error here.
type Spawner interface {
	Spawn(ctx context.Context, t *runner.Task) error
}

// taskArgs renders the feijoa-runner command line for executing t. The
// parameters are emitted in sorted order so the command line is stable.
func taskArgs(t *runner.Task, cacheDirs []string) []string {
	args := []string{
		"task-run",
		"-id", t.ID(),
		"-status", strings.Join(t.StatusURIs(), ","),
	}
	if len(cacheDirs) > 0 {
		args = append(args, "-cachedirs", strings.Join(cacheDirs, ","))
	}
	r := t.Runnable()
	args = append(args, "-kind", r.Kind())
	if r.URI() != "" {
		args = append(args, "-uri", r.URI())
	}
	params := r.Parameters()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-param", k+"="+params[k])
	}
	return args
}

// ProcessSpawner runs each task as a feijoa-runner child process on the
// local host.
type ProcessSpawner struct {
	// Executable is the feijoa-runner binary to invoke. It is looked up
	// in PATH if not an absolute path.
	Executable string
	// CacheDirs lists the asset cache directories handed to the runner.
	CacheDirs []string
}

var _ Spawner = (*ProcessSpawner)(nil)

// Spawn runs t as a child process and waits for it to exit.
func (s *ProcessSpawner) Spawn(ctx context.Context, t *runner.Task) error {
	cmd := &process.Command{Path: s.Executable, Args: taskArgs(t, s.CacheDirs)}
	res, err := cmd.Run(ctx)
	if err != nil {
		if res != nil {
			for _, line := range res.Lines() {
				logging.Debug(ctx, line)
			}
		}
		return errors.Wrapf(err, "runner process for task %s failed", t.ID())
	}
	return nil
}
