// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package test

import (
	"context"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/logging"
)

// exitTimeout is the extra time a phase gets to return after its context
// deadline expires.
const exitTimeout = 3 * time.Second

// clk is replaced in unit tests to use fake clocks.
var clk = clock.NewClock()

// Case is the contract a unit of work implements to run under the
// lifecycle. Setup prepares the environment, Action performs the work
// being evaluated, and Cleanup undoes what Setup did. Embed Base to get
// no-op Setup and Cleanup, leaving only Action to implement.
type Case interface {
	Setup(ctx context.Context, t *Test) error
	Action(ctx context.Context, t *Test) error
	Cleanup(ctx context.Context, t *Test) error
}

// Base provides default no-op Setup and Cleanup phases.
type Base struct{}

// Setup implements Case.
func (Base) Setup(ctx context.Context, t *Test) error { return nil }

// Cleanup implements Case.
func (Base) Cleanup(ctx context.Context, t *Test) error { return nil }

// Run executes c under the full lifecycle and records the terminal
// outcome on t. Execution failures never escape the driver; they are
// classified into t's status. The returned error covers only harness
// misuse (running a Test twice) and log capture that could not start.
//
// The phase sequence is setup, action, cleanup. A setup failure is
// re-tagged as a setup error and skips the remaining phases; an action
// failure skips cleanup. On every exit path the driver computes the
// elapsed time, reports the outcome to the log, reads the captured log
// back into the test's text output and detaches the log sink, in that
// order.
func Run(ctx context.Context, t *Test, c Case) error {
	if t.ran {
		return errors.Errorf("test %s has already been run", t.taggedName)
	}
	t.ran = true

	f, err := os.OpenFile(t.logfile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open log file for %s", t.taggedName)
	}
	sink := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(f))
	logger := logging.NewMultiLogger(sink)
	ctx = logging.AttachLogger(ctx, logger)

	start := clk.Now()
	defer func() {
		t.timeElapsed = clk.Since(start)
		t.report(ctx)
		if out, err := os.ReadFile(t.logfile); err == nil {
			t.textOutput = string(out)
		}
		logger.RemoveLogger(sink)
		f.Close()
	}()

	if t.sysinfo != nil {
		if err := t.sysinfo.Collect(ctx, t.sysinfodir); err != nil {
			logging.Info(ctx, "Failed to collect system information: ", err)
		}
	}

	t.setOutcome(ctx, t.runPhases(ctx, c))
	return nil
}

// runPhases drives the phase sequence and returns the first failure.
func (t *Test) runPhases(ctx context.Context, c Case) error {
	if err := runPhase(ctx, "setup", 0, c.Setup, t); err != nil {
		return &setupError{cause: err}
	}
	if err := runPhase(ctx, "action", t.timeout, c.Action, t); err != nil {
		return err
	}
	return runPhase(ctx, "cleanup", 0, c.Cleanup, t)
}

// runPhase runs one phase function, applying timeout via the context
// deadline when positive. The phase runs in its own goroutine so that a
// runaway phase can be abandoned: once the deadline plus exitTimeout has
// passed without the phase returning, the driver stops waiting for it.
func runPhase(ctx context.Context, name string, timeout time.Duration, f func(context.Context, *Test) error, t *Test) error {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	ch := make(chan error, 1)
	go func() {
		ch <- runAndRecover(ctx, f, t)
	}()

	if timeout <= 0 {
		return <-ch
	}
	tm := clk.NewTimer(timeout + exitTimeout)
	defer tm.Stop()
	select {
	case err := <-ch:
		return err
	case <-tm.C():
		return errors.Errorf("%s did not return within %v", name, timeout+exitTimeout)
	}
}

// runAndRecover invokes f, converting a panic into an error carrying the
// runtime stack captured at the point of recovery.
func runAndRecover(ctx context.Context, f func(context.Context, *Test) error, t *Test) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{val: r, stack: debug.Stack()}
		}
	}()
	return f(ctx, t)
}

// setOutcome classifies err and assigns the write-once outcome fields.
// A nil err means the test passed.
func (t *Test) setOutcome(ctx context.Context, err error) {
	if err == nil {
		t.status = StatusPass
		return
	}
	status, class := classify(err)
	t.status = status
	t.failClass = class
	t.failReason = err.Error()
	t.traceback = traceOf(err)
	if class == errorClass {
		// Dump the trace into the log so that operators can see the
		// failure even if the final report is never read.
		for _, line := range strings.Split(t.traceback, "\n") {
			logging.Error(ctx, line)
		}
	}
}

// report writes the one-line outcome to the log.
func (t *Test) report(ctx context.Context) {
	if t.failReason != "" {
		logging.Errorf(ctx, "%s %s -> %s: %s", t.status, t.taggedName, t.failClass, t.failReason)
	} else {
		logging.Infof(ctx, "%s %s", t.status, t.taggedName)
	}
}
