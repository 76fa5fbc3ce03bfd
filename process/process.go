// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package process runs external commands and captures their results.
package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/shutil"
)

// CmdResult describes one finished command execution.
type CmdResult struct {
	// Command is the shell-escaped command line.
	Command string
	// ExitStatus is the command's exit status. It is -1 if the command
	// did not exit normally.
	ExitStatus int
	// Stdout and Stderr contain the captured output.
	Stdout string
	Stderr string
	// Duration is the wall-clock time the command took.
	Duration time.Duration
}

// String renders the result as the multi-line report logged by callers.
func (r *CmdResult) String() string {
	return fmt.Sprintf("Command: %s\n"+
		"Exit status: %d\n"+
		"Duration: %v\n"+
		"Stdout:\n%s\n"+
		"Stderr:\n%s", r.Command, r.ExitStatus, r.Duration, r.Stdout, r.Stderr)
}

// Lines splits the rendered result into individual lines for logging.
func (r *CmdResult) Lines() []string {
	return strings.Split(r.String(), "\n")
}

// CmdError is reported when a command starts but exits with a non-zero
// status. Result always carries the full execution record.
type CmdError struct {
	Result *CmdResult
}

// Error implements the error interface.
func (e *CmdError) Error() string {
	return fmt.Sprintf("command %q failed (exit status %d)", e.Result.Command, e.Result.ExitStatus)
}

// Command describes a command to run.
type Command struct {
	// Path is the executable to run.
	Path string
	// Args holds the arguments, not including the executable itself.
	Args []string
	// Env lists additional environment variables as "key=value" strings.
	// The child inherits the parent environment plus these.
	Env []string
}

// Run executes a command and waits for it to finish, capturing its output.
//
// The command runs in its own process group; if ctx is canceled before the
// command finishes, the whole group is killed and the returned error wraps
// ctx.Err(). A non-zero exit status is reported as a *CmdError. The returned
// CmdResult is non-nil whenever the command started, including on error.
func (c *Command) Run(ctx context.Context) (*CmdResult, error) {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %q", c.Path)
	}

	// Kill the whole process group if ctx is canceled while waiting.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		case <-done:
		}
	}()
	werr := cmd.Wait()
	close(done)

	res := &CmdResult{
		Command:    shutil.EscapeSlice(append([]string{c.Path}, c.Args...)),
		ExitStatus: exitStatus(werr),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Duration:   time.Since(start),
	}
	if werr == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, errors.Wrapf(ctxErr, "command %q interrupted", c.Path)
	}
	var exitErr *exec.ExitError
	if errors.As(werr, &exitErr) {
		return res, &CmdError{Result: res}
	}
	return res, errors.Wrapf(werr, "failed waiting for %q", c.Path)
}

// Run executes the named command with the given arguments. See Command.Run.
func Run(ctx context.Context, name string, args ...string) (*CmdResult, error) {
	return (&Command{Path: name, Args: args}).Run(ctx)
}

// exitStatus extracts the exit status from an error returned by exec.Cmd.Wait.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
