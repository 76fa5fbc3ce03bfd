// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package test runs a unit of work through the setup/action/cleanup
// lifecycle and records its terminal outcome.
//
// A Test is one execution attempt of a named unit of work. Constructing
// it allocates a tagged name unique within the results root, creates the
// scratch and log directories, and fixes the paths the run will use. Run
// then drives a Case through the lifecycle: failures never escape the
// driver; they are classified into one of PASS, FAIL or ERROR and stored
// on the Test together with the failure category, reason, stack trace,
// elapsed time and the full captured log.
package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/feijoa-framework/feijoa/errors"
)

// Status describes the terminal outcome of a test.
type Status string

// Statuses assigned by the lifecycle driver.
const (
	StatusPass  Status = "PASS"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
)

// SysinfoCollector takes a best-effort snapshot of system state into dir.
// The lifecycle driver invokes it right before the setup phase; failures
// are logged and otherwise ignored.
type SysinfoCollector interface {
	Collect(ctx context.Context, dir string) error
}

// Config describes a test to construct with New.
type Config struct {
	// Name is the logical test name. It must be non-empty.
	Name string

	// Tag disambiguates repeated runs of the same name. If it is empty,
	// a free tag is allocated by probing the results root for the first
	// unused name.<n> directory.
	Tag string

	// AtomicTag makes tag allocation claim the log directory by creating
	// it exclusively, retrying on collision. Set it when concurrent runs
	// share ResultsRoot. Ignored if Tag is set.
	AtomicTag bool

	// SourceRoot is the directory containing per-test source trees.
	SourceRoot string

	// WorkRoot is the directory holding per-test scratch space.
	WorkRoot string

	// ResultsRoot is the directory receiving per-run log directories.
	ResultsRoot string

	// Timeout bounds the action phase. Zero or negative means no limit.
	Timeout time.Duration

	// Sysinfo, if non-nil, is invoked before the setup phase.
	Sysinfo SysinfoCollector
}

// Test is one execution attempt of a named unit of work.
//
// The outcome fields are write-once: they are zero until Run assigns them
// during terminal reporting, and a Test must not be run again afterwards.
type Test struct {
	name       string
	tag        string
	taggedName string

	basedir    string
	depsdir    string
	workdir    string
	srcdir     string
	logdir     string
	logfile    string
	sysinfodir string

	timeout time.Duration
	sysinfo SysinfoCollector

	ran bool

	status      Status
	failClass   string
	failReason  string
	traceback   string
	timeElapsed time.Duration
	textOutput  string
}

// New constructs a Test from cfg, allocating its tagged name and creating
// its work and log directories. Directory creation is idempotent except
// for the log directory claimed by the atomic tag allocator.
func New(cfg *Config) (*Test, error) {
	if cfg.Name == "" {
		return nil, errors.New("test name is empty")
	}

	t := &Test{
		name:    cfg.Name,
		timeout: cfg.Timeout,
		sysinfo: cfg.Sysinfo,
	}

	if err := os.MkdirAll(cfg.ResultsRoot, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create results root")
	}

	claimed := false
	switch {
	case cfg.Tag != "":
		// Caller-asserted uniqueness; no collision check.
		t.tag = cfg.Tag
		t.taggedName = fmt.Sprintf("%s.%s", t.name, t.tag)
	case cfg.AtomicTag:
		tag, taggedName, err := allocateTagAtomic(cfg.ResultsRoot, t.name)
		if err != nil {
			return nil, err
		}
		t.tag = tag
		t.taggedName = taggedName
		claimed = true
	default:
		t.tag, t.taggedName = allocateTag(cfg.ResultsRoot, t.name)
	}
	t.logdir = filepath.Join(cfg.ResultsRoot, t.taggedName)
	if !claimed {
		if err := os.MkdirAll(t.logdir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create log directory for %s", t.taggedName)
		}
	}
	t.logfile = filepath.Join(t.logdir, "debug.log")
	t.sysinfodir = filepath.Join(t.logdir, "sysinfo")

	t.basedir = filepath.Join(cfg.SourceRoot, t.name)
	t.depsdir = filepath.Join(t.basedir, "deps")
	t.workdir = filepath.Join(cfg.WorkRoot, t.name)
	t.srcdir = filepath.Join(t.workdir, "src")
	if err := os.MkdirAll(t.srcdir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create work directory for %s", t.name)
	}

	return t, nil
}

// Name returns the logical test name.
func (t *Test) Name() string { return t.name }

// Tag returns the tag disambiguating this run.
func (t *Test) Tag() string { return t.tag }

// TaggedName returns name.tag, unique within the results root.
func (t *Test) TaggedName() string { return t.taggedName }

// String implements fmt.Stringer.
func (t *Test) String() string { return t.taggedName }

// BaseDir returns the directory holding the test's source tree.
func (t *Test) BaseDir() string { return t.basedir }

// WorkDir returns the test's private scratch directory.
func (t *Test) WorkDir() string { return t.workdir }

// SrcDir returns the scratch subdirectory for unpacked sources.
func (t *Test) SrcDir() string { return t.srcdir }

// LogDir returns the per-run log directory under the results root.
func (t *Test) LogDir() string { return t.logdir }

// LogFile returns the path of the test's primary log file.
func (t *Test) LogFile() string { return t.logfile }

// SysinfoDir returns the directory receiving sysinfo snapshots.
func (t *Test) SysinfoDir() string { return t.sysinfodir }

// DepsPath returns the path of a bundled dependency with the given base
// name. It is a pure path join; no existence guarantee is made.
func (t *Test) DepsPath(basename string) string {
	return filepath.Join(t.depsdir, basename)
}

// Timeout returns the action phase timeout. Zero means no limit.
func (t *Test) Timeout() time.Duration { return t.timeout }

// Status returns the terminal status, or the empty string if the test
// has not finished running.
func (t *Test) Status() Status { return t.status }

// FailClass returns the failure category name, or the empty string if
// the test passed.
func (t *Test) FailClass() string { return t.failClass }

// FailReason returns the human-readable failure cause, or the empty
// string if the test passed.
func (t *Test) FailReason() string { return t.failReason }

// Traceback returns the formatted stack trace of the failure, or the
// empty string if the test passed.
func (t *Test) Traceback() string { return t.traceback }

// TimeElapsed returns the wall-clock duration of the run.
func (t *Test) TimeElapsed() time.Duration { return t.timeElapsed }

// TextOutput returns the full captured log content of the run.
func (t *Test) TextOutput() string { return t.textOutput }

// Record is the reported outcome of one test run, as persisted by
// collectors.
type Record struct {
	Name        string  `json:"name"`
	TaggedName  string  `json:"tagged_name"`
	Status      Status  `json:"status"`
	FailClass   string  `json:"fail_class,omitempty"`
	FailReason  string  `json:"fail_reason,omitempty"`
	Traceback   string  `json:"traceback,omitempty"`
	TimeElapsed float64 `json:"time_elapsed"`
	TextOutput  string  `json:"text_output"`
}

// Record returns the reported outcome of the run. Call it only after Run
// has returned.
func (t *Test) Record() *Record {
	return &Record{
		Name:        t.name,
		TaggedName:  t.taggedName,
		Status:      t.status,
		FailClass:   t.failClass,
		FailReason:  t.failReason,
		Traceback:   t.traceback,
		TimeElapsed: t.timeElapsed.Seconds(),
		TextOutput:  t.textOutput,
	}
}
