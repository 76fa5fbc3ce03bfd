// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"sort"

	"github.com/feijoa-framework/feijoa/process"
	"github.com/feijoa-framework/feijoa/status"
)

// ExecRunner executes runnables of kind "exec": it runs the executable
// named by the runnable's URI, with the runnable's parameters exported as
// environment variables, and streams the captured execution record.
// Exit status 0 passes; everything else, including failure to start, is an
// error.
type ExecRunner struct{}

var _ Runner = &ExecRunner{}

// NewExecRunner returns an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, rn *Runnable) <-chan status.Message {
	return stream(ctx, func(ctx context.Context, emit func(status.Message) bool) status.Result {
		if rn.URI() == "" {
			emit(status.Logf("At least uri should be passed to name the executable"))
			return status.ResultError
		}
		cmd := &process.Command{Path: rn.URI(), Env: paramEnv(rn)}
		res, err := cmd.Run(ctx)
		if res != nil {
			for _, line := range res.Lines() {
				emit(status.Log([]byte(line)))
			}
		}
		if err != nil {
			emit(status.Log([]byte(err.Error())))
			return status.ResultError
		}
		return status.ResultPass
	})
}

// paramEnv renders the runnable's parameters as "key=value" environment
// entries in deterministic order.
func paramEnv(rn *Runnable) []string {
	params := rn.Parameters()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, params[k]))
	}
	return env
}
