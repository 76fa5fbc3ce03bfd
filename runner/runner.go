// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runner executes runnables and reports progress as status streams.
//
// A Runner turns one Runnable into an ordered stream of status messages.
// The stream is lazy and single-pass: messages are produced as the consumer
// receives them, and the channel is closed after the terminal message.
// Runners never leak errors across the stream boundary; every failure is
// converted into messages ending in finished(error).
package runner

import (
	"context"
	"sort"
	"sync"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/status"
)

// Runner executes runnables of one kind.
type Runner interface {
	// Run executes r and returns the stream of status messages describing
	// the execution. The returned channel is closed after the terminal
	// finished message. If ctx is canceled, the stream may end early
	// without a terminal message.
	Run(ctx context.Context, r *Runnable) <-chan status.Message
}

// stream drives the common stream shape: a started message, whatever body
// emits, and a terminal finished message carrying body's result. Sends obey
// ctx so an abandoned consumer does not leak the producing goroutine; emit
// reports whether the message was delivered.
func stream(ctx context.Context, body func(ctx context.Context, emit func(status.Message) bool) status.Result) <-chan status.Message {
	ch := make(chan status.Message)
	emit := func(msg status.Message) bool {
		select {
		case ch <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(ch)
		if !emit(status.Started()) {
			return
		}
		result := body(ctx, emit)
		emit(status.Finished(result))
	}()
	return ch
}

// Registry maps runnable kinds to the Runner executing them.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	runners map[string]Runner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register registers r as the Runner for kind, replacing any previous
// registration.
func (reg *Registry) Register(kind string, r Runner) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.runners[kind] = r
}

// Lookup returns the Runner registered for kind.
func (reg *Registry) Lookup(kind string) (Runner, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.runners[kind]
	return r, ok
}

// Kinds returns the registered kinds in sorted order.
func (reg *Registry) Kinds() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	kinds := make([]string, 0, len(reg.runners))
	for kind := range reg.runners {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultRegistry returns a Registry with all built-in runners registered.
// fetcher backs the asset runner.
func DefaultRegistry(fetcher asset.Fetcher) *Registry {
	reg := NewRegistry()
	reg.Register("noop", NewNoopRunner())
	reg.Register("exec", NewExecRunner())
	reg.Register("asset", NewAssetRunner(fetcher))
	return reg
}
