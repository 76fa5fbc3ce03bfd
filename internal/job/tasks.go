// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/internal/metrics"
	"github.com/feijoa-framework/feijoa/internal/spawner"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/runner"
	"github.com/feijoa-framework/feijoa/status"
)

// TaskRecord is the terminal outcome of one task as written to tasks.json.
type TaskRecord struct {
	ID     string        `json:"id"`
	Result status.Result `json:"result"`
}

// RunTasks executes each runnable as an isolated task reporting over the
// status protocol, writes tasks.json, and returns aggregate counts.
//
// The job starts one status server on cfg.StatusAddr, hands its address
// to every task, and spawns the tasks concurrently through sp. A task
// whose spawn fails, or that exits without reporting a result, counts as
// an error.
func (j *Job) RunTasks(ctx context.Context, runnables []*runner.Runnable, sp spawner.Spawner) (*Summary, error) {
	ctx = j.attachLog(ctx)
	start := time.Now()

	lis, err := net.Listen("tcp", j.cfg.StatusAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", j.cfg.StatusAddr)
	}
	coll := newCollector()
	srv := status.NewServer(lis, len(runnables), coll.handler(ctx))
	addr := srv.Addr().String()
	logging.Infof(ctx, "Job %s: running %d tasks; status server at %s", j.id, len(runnables), addr)

	var g errgroup.Group
	ids := make([]string, 0, len(runnables))
	for i, rn := range runnables {
		task := runner.NewTask(fmt.Sprintf("%d-%s", i+1, rn.Kind()), rn, []string{addr})
		ids = append(ids, task.ID())
		g.Go(func() error {
			if err := sp.Spawn(ctx, task); err != nil {
				logging.Errorf(ctx, "Task %s: %v", task.ID(), err)
			}
			return nil
		})
	}
	g.Wait()
	if err := srv.Close(); err != nil {
		logging.Errorf(ctx, "Status stream error: %v", err)
	}

	var sum Summary
	records := make([]*TaskRecord, 0, len(ids))
	for _, id := range ids {
		res, ok := coll.lookup(id)
		if !ok {
			logging.Errorf(ctx, "Task %s never reported a result", id)
			res = status.ResultError
		}
		switch res {
		case status.ResultPass:
			sum.Pass++
		case status.ResultFail:
			sum.Fail++
		default:
			sum.Error++
		}
		metrics.RecordTask(j.id, string(res))
		records = append(records, &TaskRecord{ID: id, Result: res})
	}
	sum.Elapsed = time.Since(start)
	metrics.RecordJob(j.id, sum.Elapsed)

	if err := j.writeTasks(records, &sum); err != nil {
		return nil, err
	}
	logTable(ctx, taskTable(records, &sum))
	logging.Infof(ctx, "Results saved to %s", j.resDir)
	return &sum, nil
}

// taskReport is the schema of tasks.json.
type taskReport struct {
	JobID string        `json:"job_id"`
	Total int           `json:"total"`
	Pass  int           `json:"pass"`
	Error int           `json:"error"`
	Tasks []*TaskRecord `json:"tasks"`
}

func (j *Job) writeTasks(records []*TaskRecord, sum *Summary) error {
	rep := &taskReport{
		JobID: j.id,
		Total: sum.Total(),
		Pass:  sum.Pass,
		Error: sum.Error,
		Tasks: records,
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal task results")
	}
	if err := os.WriteFile(filepath.Join(j.resDir, tasksFileName), b, 0644); err != nil {
		return errors.Wrap(err, "failed to write task results")
	}
	return nil
}

// taskTable renders the per-task summary table.
func taskTable(records []*TaskRecord, sum *Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Task", "Result"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Result})
	}
	t.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d/%d PASS", sum.Pass, sum.Total())})
	return t.Render()
}

// collector records the terminal result of each task as interleaved
// status streams arrive. Its handler runs concurrently for messages from
// different connections.
type collector struct {
	mu      sync.Mutex
	results map[string]status.Result
}

func newCollector() *collector {
	return &collector{results: make(map[string]status.Result)}
}

// handler returns the status server callback, which logs progress
// through ctx and records finished results.
func (c *collector) handler(ctx context.Context) func(*status.Message) {
	return func(msg *status.Message) {
		switch msg.Kind {
		case status.KindStarted:
			logging.Debugf(ctx, "Task %s started", msg.TaskID)
		case status.KindLog:
			logging.Infof(ctx, "Task %s: %s", msg.TaskID, msg.Log)
		case status.KindFinished:
			c.mu.Lock()
			c.results[msg.TaskID] = msg.Result
			c.mu.Unlock()
			logging.Infof(ctx, "Task %s finished: %s", msg.TaskID, msg.Result)
		}
	}
}

// lookup returns the recorded result for id.
func (c *collector) lookup(id string) (status.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.results[id]
	return res, ok
}
