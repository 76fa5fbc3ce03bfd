// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command provides support code shared by the feijoa executables.
package command

import (
	"fmt"
	"io"
)

// StatusError is an error with an associated status code to exit with.
type StatusError struct {
	msg    string
	status int
}

func (e *StatusError) Error() string { return e.msg }

// Status returns the status code associated with the error.
func (e *StatusError) Status() int { return e.status }

// NewStatusErrorf creates a StatusError with the passed status code and a
// message formatted with fmt.Sprintf.
func NewStatusErrorf(status int, format string, args ...interface{}) *StatusError {
	return &StatusError{msg: fmt.Sprintf(format, args...), status: status}
}

// WriteError writes err's message to w and returns the status code to exit
// with: the attached code if err is a *StatusError, 1 otherwise.
func WriteError(w io.Writer, err error) int {
	status := 1
	if se, ok := err.(*StatusError); ok {
		status = se.status
	}
	fmt.Fprintf(w, "%s\n", err.Error())
	return status
}
