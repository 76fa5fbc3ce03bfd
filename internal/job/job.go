// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package job owns a single harness run: it prepares the results
// directory, executes tests or tasks, aggregates their outcomes, and
// persists reports.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/internal/config"
	"github.com/feijoa-framework/feijoa/internal/metrics"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/sysinfo"
	"github.com/feijoa-framework/feijoa/test"
)

const (
	testResultsDirName = "test-results"
	jobLogName         = "job.log"
	resultsFileName    = "results.json"
	tasksFileName      = "tasks.json"
	latestLinkName     = "latest"
)

// Job owns one harness run rooted at its own results directory.
type Job struct {
	id      string
	resDir  string
	cfg     *config.Config
	logFile *os.File
}

// New creates a job with a fresh results directory under cfg.ResultsDir
// and points the "latest" symlink in cfg.ResultsDir at it.
func New(ctx context.Context, cfg *config.Config) (*Job, error) {
	id := uuid.New().String()
	name := fmt.Sprintf("job-%s-%s", time.Now().Format("2006-01-02T15.04"), id[:7])
	resDir := filepath.Join(cfg.ResultsDir, name)
	if err := os.MkdirAll(resDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create results directory")
	}

	link := filepath.Join(cfg.ResultsDir, latestLinkName)
	os.Remove(link)
	if err := os.Symlink(name, link); err != nil {
		logging.Info(ctx, "Failed to create results symlink: ", err)
	}

	f, err := os.OpenFile(filepath.Join(resDir, jobLogName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open job log")
	}
	return &Job{id: id, resDir: resDir, cfg: cfg, logFile: f}, nil
}

// ID returns the unique id of this run.
func (j *Job) ID() string { return j.id }

// ResultsDir returns the directory reports are written to.
func (j *Job) ResultsDir() string { return j.resDir }

// Close releases the job log.
func (j *Job) Close() error {
	return j.logFile.Close()
}

// attachLog routes log entries to the job log in addition to any logger
// already attached to ctx.
func (j *Job) attachLog(ctx context.Context) context.Context {
	sink := logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(j.logFile))
	return logging.AttachLogger(ctx, sink)
}

// Summary aggregates the terminal outcomes of one run.
type Summary struct {
	Pass    int
	Fail    int
	Error   int
	Elapsed time.Duration
}

// Total returns the number of outcomes aggregated.
func (s *Summary) Total() int { return s.Pass + s.Fail + s.Error }

// OK reports whether every outcome was a pass.
func (s *Summary) OK() bool { return s.Fail == 0 && s.Error == 0 }

// RunTests executes each executable as a command test through the full
// lifecycle, writes results.json, and returns aggregate counts.
//
// Environmental failures (a test directory that cannot be created, a log
// that cannot be opened) abort the job; failures of the tests themselves
// are recorded and counted, never returned.
func (j *Job) RunTests(ctx context.Context, paths []string) (*Summary, error) {
	ctx = j.attachLog(ctx)
	start := time.Now()
	logging.Infof(ctx, "Job %s: running %d tests", j.id, len(paths))

	collector := sysinfo.NewCollector(j.cfg.SysinfoCommands)

	var sum Summary
	records := make([]*test.Record, 0, len(paths))
	for _, path := range paths {
		cfg := &test.Config{
			Name:        test.CommandName(path),
			AtomicTag:   true,
			SourceRoot:  j.cfg.TestsDir,
			WorkRoot:    j.cfg.WorkDir,
			ResultsRoot: filepath.Join(j.resDir, testResultsDirName),
			Timeout:     time.Duration(j.cfg.TestTimeout) * time.Second,
			Sysinfo:     collector,
		}
		t, err := test.New(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to set up test %s", cfg.Name)
		}
		if err := test.Run(ctx, t, test.NewCommandCase(path)); err != nil {
			return nil, errors.Wrapf(err, "failed to run test %s", t)
		}
		switch t.Status() {
		case test.StatusPass:
			sum.Pass++
		case test.StatusFail:
			sum.Fail++
		default:
			sum.Error++
		}
		metrics.RecordTest(j.id, string(t.Status()))
		records = append(records, t.Record())
	}
	sum.Elapsed = time.Since(start)
	metrics.RecordJob(j.id, sum.Elapsed)

	if err := j.writeResults(records, &sum); err != nil {
		return nil, err
	}
	logTable(ctx, testTable(records, &sum))
	logging.Infof(ctx, "Results saved to %s", j.resDir)
	return &sum, nil
}

// report is the schema of results.json.
type report struct {
	JobID string         `json:"job_id"`
	Total int            `json:"total"`
	Pass  int            `json:"pass"`
	Fail  int            `json:"fail"`
	Error int            `json:"error"`
	Tests []*test.Record `json:"tests"`
}

func (j *Job) writeResults(records []*test.Record, sum *Summary) error {
	rep := &report{
		JobID: j.id,
		Total: sum.Total(),
		Pass:  sum.Pass,
		Fail:  sum.Fail,
		Error: sum.Error,
		Tests: records,
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal results")
	}
	if err := os.WriteFile(filepath.Join(j.resDir, resultsFileName), b, 0644); err != nil {
		return errors.Wrap(err, "failed to write results")
	}
	return nil
}

// testTable renders the per-test summary table.
func testTable(records []*test.Record, sum *Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Test", "Status", "Class", "Reason", "Duration"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Reason", WidthMax: 50},
		{Name: "Duration", Align: text.AlignRight},
	})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.TaggedName, r.Status, r.FailClass, r.FailReason,
			fmt.Sprintf("%.2fs", r.TimeElapsed),
		})
	}
	t.AppendFooter(table.Row{
		"TOTAL", fmt.Sprintf("%d/%d PASS", sum.Pass, sum.Total()), "", "",
		fmt.Sprintf("%.2fs", sum.Elapsed.Seconds()),
	})
	return t.Render()
}

// logTable writes a rendered table to the log line by line.
func logTable(ctx context.Context, tbl string) {
	for _, line := range strings.Split(tbl, "\n") {
		logging.Info(ctx, line)
	}
}
