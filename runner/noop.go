// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner

import (
	"context"

	"github.com/feijoa-framework/feijoa/status"
)

// NoopRunner executes runnables of kind "noop": it performs no work and
// always passes. It exists for plumbing tests and as a reference for the
// stream protocol.
type NoopRunner struct{}

var _ Runner = &NoopRunner{}

// NewNoopRunner returns a NoopRunner.
func NewNoopRunner() *NoopRunner {
	return &NoopRunner{}
}

// Run implements Runner.
func (r *NoopRunner) Run(ctx context.Context, rn *Runnable) <-chan status.Message {
	return stream(ctx, func(ctx context.Context, emit func(status.Message) bool) status.Result {
		emit(status.Logf("No operation performed"))
		return status.ResultPass
	})
}
