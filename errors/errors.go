// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors provides basic utilities to construct errors.
//
// To construct new errors or wrap other errors, use this package rather
// than the standard library (errors.New, fmt.Errorf) or any third-party
// library. This package records stack traces and chained errors, and
// leaves nicely formatted logs when a unit of work fails.
//
// To construct a new error, use New or Errorf.
//
//	errors.New("asset not found")
//	errors.Errorf("asset %q not found", name)
//
// To construct an error by adding context to an existing error, use Wrap
// or Wrapf.
//
//	errors.Wrap(err, "failed to create work directory")
//	errors.Wrapf(err, "failed to create work directory for %s", name)
//
// A stack trace can be printed by formatting an error with the fmt
// package's "%+v" verb. The trace of each error in a chain starts at the
// line that constructed it, so reports begin at the failing code rather
// than in harness plumbing.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/feijoa-framework/feijoa/errors/stack"
)

// impl is the error implementation used by this package.
type impl struct {
	msg   string      // error message to be prepended to cause
	stk   stack.Stack // stack trace where this error was created
	cause error       // original error that caused this error if non-nil
}

// Error implements the error interface.
func (e *impl) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

// Unwrap returns the original error wrapped by this error, or nil.
func (e *impl) Unwrap() error {
	return e.cause
}

// formatChain formats an error chain.
func formatChain(err error) string {
	var chain []string
	for err != nil {
		if e, ok := err.(*impl); !ok {
			chain = append(chain, fmt.Sprintf("%s\n\tat ???", err.Error()))
			err = nil
		} else {
			chain = append(chain, fmt.Sprintf("%s\n%v", e.msg, e.stk))
			err = e.cause
		}
	}
	return strings.Join(chain, "\n")
}

// Format implements the fmt.Formatter interface.
// In particular, an error chain is formatted by the "%+v" verb.
func (e *impl) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, formatChain(e))
	} else {
		io.WriteString(s, e.Error())
	}
}

// New creates a new error with the given message.
// This is similar to the standard errors.New, but also records the
// location where it was called.
func New(msg string) error {
	s := stack.New(1)
	return &impl{msg, s, nil}
}

// Errorf creates a new error with the given message.
// This is similar to the standard fmt.Errorf, but also records the
// location where it was called.
func Errorf(format string, args ...interface{}) error {
	s := stack.New(1)
	msg := fmt.Sprintf(format, args...)
	return &impl{msg, s, nil}
}

// Wrap creates a new error with the given message, wrapping another error.
// This function also records the location where it was called.
// If cause is nil, this is the same as New.
func Wrap(cause error, msg string) error {
	s := stack.New(1)
	return &impl{msg, s, cause}
}

// Wrapf creates a new error with the given message, wrapping another error.
// This function also records the location where it was called.
// If cause is nil, this is the same as Errorf.
func Wrapf(cause error, format string, args ...interface{}) error {
	s := stack.New(1)
	msg := fmt.Sprintf(format, args...)
	return &impl{msg, s, cause}
}

// Trace formats err with its stack traces, one entry per error in the
// chain. Errors constructed outside this package format as the message
// followed by an unknown-location marker.
func Trace(err error) string {
	return formatChain(err)
}

// As finds the first error in err's chain that matches target.
// It is a thin wrapper of errors.As in the standard library.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is reports whether any error in err's chain matches target.
// It is a thin wrapper of errors.Is in the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if
// available. It is a thin wrapper of errors.Unwrap in the standard library.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
