// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package test

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/process"
)

// CommandCase is a lifecycle Case wrapping an arbitrary executable: the
// action runs it and the exit status decides the outcome. Exit status 0
// passes; a non-zero exit is a declared failure.
type CommandCase struct {
	Base
	path string
}

// NewCommandCase returns a case running the executable at path.
func NewCommandCase(path string) *CommandCase {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &CommandCase{path: path}
}

// Path returns the path of the wrapped executable.
func (c *CommandCase) Path() string { return c.path }

// CommandName derives a test name from an executable path: the base name
// up to its first dot, so "sleeptest.sh" becomes "sleeptest".
func CommandName(path string) string {
	return strings.SplitN(filepath.Base(path), ".", 2)[0]
}

// Action implements Case. Every line of the structured command result is
// logged regardless of the outcome.
func (c *CommandCase) Action(ctx context.Context, t *Test) error {
	res, err := process.Run(ctx, c.path)
	if res != nil {
		for _, line := range res.Lines() {
			logging.Info(ctx, line)
		}
	}
	if err != nil {
		var cmdErr *process.CmdError
		if errors.As(err, &cmdErr) {
			return Fail(cmdErr.Error())
		}
		return err
	}
	return nil
}
