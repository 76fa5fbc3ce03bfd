// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package loggingtest provides logging utilities for unit tests.
package loggingtest

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/feijoa-framework/feijoa/logging"
)

// Logger is a Logger that records messages sent to it for later inspection.
// It also emits messages to the unit test log so that they are visible on
// test failures.
type Logger struct {
	logger *logging.SinkLogger

	mu   sync.Mutex
	logs []string
}

var _ logging.Logger = &Logger{}

// NewLogger creates a new Logger for a unit test.
func NewLogger(t *testing.T, level logging.Level) *Logger {
	l := &Logger{}
	l.logger = logging.NewSinkLogger(level, false, logging.NewFuncSink(func(msg string) {
		t.Log(msg)
		l.mu.Lock()
		defer l.mu.Unlock()
		l.logs = append(l.logs, msg)
	}))
	return l
}

// Log records a log entry.
func (l *Logger) Log(level logging.Level, ts time.Time, msg string) {
	l.logger.Log(level, ts, msg)
}

// Logs returns a copy of messages recorded so far.
func (l *Logger) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.logs...)
}

// String returns messages recorded so far, concatenated with newlines.
func (l *Logger) String() string {
	return strings.Join(l.Logs(), "\n")
}
