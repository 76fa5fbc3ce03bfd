// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metrics

import (
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTest(t *testing.T) {
	RecordTest("run-a", "PASS")
	RecordTest("run-a", "PASS")
	RecordTest("run-a", "FAIL")

	if got := promtestutil.ToFloat64(testsTotal.WithLabelValues("run-a", "PASS")); got != 2 {
		t.Errorf("tests_total{run-a,PASS} = %v; want 2", got)
	}
	if got := promtestutil.ToFloat64(testsTotal.WithLabelValues("run-a", "FAIL")); got != 1 {
		t.Errorf("tests_total{run-a,FAIL} = %v; want 1", got)
	}
}

func TestRecordTask(t *testing.T) {
	RecordTask("run-b", "pass")
	RecordTask("run-b", "error")

	if got := promtestutil.ToFloat64(tasksTotal.WithLabelValues("run-b", "pass")); got != 1 {
		t.Errorf("tasks_total{run-b,pass} = %v; want 1", got)
	}
	if got := promtestutil.ToFloat64(tasksTotal.WithLabelValues("run-b", "error")); got != 1 {
		t.Errorf("tasks_total{run-b,error} = %v; want 1", got)
	}
}

func TestRecordJob(t *testing.T) {
	RecordJob("run-c", 90*time.Second)

	if got := promtestutil.ToFloat64(jobDuration.WithLabelValues("run-c")); got != 90 {
		t.Errorf("job_duration_seconds{run-c} = %v; want 90", got)
	}
}
