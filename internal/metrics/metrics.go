// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metrics records job, test and task outcomes as Prometheus
// metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feijoa-framework/feijoa/logging"
)

const namespace = "feijoa"

var (
	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tests_total",
		Help:      "Count of finished tests by terminal status",
	}, []string{
		"run_id",
		"status",
	})

	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_total",
		Help:      "Count of finished tasks by result",
	}, []string{
		"run_id",
		"result",
	})

	jobDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Wall-clock duration of the job",
	}, []string{
		"run_id",
	})
)

// RecordTest counts one finished lifecycle test.
func RecordTest(runID, status string) {
	testsTotal.WithLabelValues(runID, status).Inc()
}

// RecordTask counts one finished task.
func RecordTask(runID, result string) {
	tasksTotal.WithLabelValues(runID, result).Inc()
}

// RecordJob sets the duration of a finished job.
func RecordJob(runID string, duration time.Duration) {
	jobDuration.WithLabelValues(runID).Set(duration.Seconds())
}

// Serve exposes the metrics endpoint on addr from a background goroutine
// for the remaining lifetime of the process.
func Serve(ctx context.Context, addr string) {
	go func() {
		if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
			logging.Infof(ctx, "Metrics server failed: %v", err)
		}
	}()
}
