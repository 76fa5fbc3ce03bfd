// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package test

import (
	"fmt"
	"strings"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/errors/stack"
)

// Failure is a failure declared by test code itself to signal "this test
// did not pass", as opposed to an unexpected error. It classifies as FAIL.
type Failure struct {
	Reason string

	stk stack.Stack
}

// Fail returns a declared test failure with the given reason.
func Fail(reason string) error {
	return &Failure{Reason: reason, stk: stack.New(1)}
}

// Failf is like Fail but formats its reason with fmt.Sprintf.
func Failf(format string, args ...interface{}) error {
	return &Failure{Reason: fmt.Sprintf(format, args...), stk: stack.New(1)}
}

func (e *Failure) Error() string { return e.Reason }

// setupError marks a failure that happened during the setup phase. The
// lifecycle driver wraps every setup error in it, overriding the natural
// category of the cause: classification yields ERROR no matter what kind
// the cause was, while its message and trace are preserved.
type setupError struct {
	cause error
}

func (e *setupError) Error() string { return e.cause.Error() }
func (e *setupError) Unwrap() error { return e.cause }

// panicError carries a panic value recovered from a lifecycle phase,
// together with the runtime stack captured at the point of recovery.
type panicError struct {
	val   interface{}
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.val) }

// Failure categories reported as a test's fail class.
const (
	setupErrorClass = "SetupError"
	failureClass    = "Failure"
	errorClass      = "Error"
)

// classify maps an execution failure to its terminal status and failure
// category. The setup check comes first so that a declared failure raised
// during setup still reports as a setup error.
func classify(err error) (Status, string) {
	var se *setupError
	if errors.As(err, &se) {
		return StatusError, setupErrorClass
	}
	var f *Failure
	if errors.As(err, &f) {
		return StatusFail, failureClass
	}
	return StatusError, errorClass
}

// traceOf renders the stack trace of an execution failure. Declared
// failures and wrapped errors carry creation-site stacks, so the trace
// starts at the failing code rather than in the driver; recovered panics
// carry the full runtime stack instead.
func traceOf(err error) string {
	var pe *panicError
	if errors.As(err, &pe) {
		return strings.TrimRight(string(pe.stack), "\n")
	}
	var se *setupError
	if errors.As(err, &se) {
		return traceOf(se.cause)
	}
	var f *Failure
	if errors.As(err, &f) {
		return fmt.Sprintf("%s\n%v", f.Reason, f.stk)
	}
	return errors.Trace(err)
}
