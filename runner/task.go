// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner

import (
	"context"
	"net"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/status"
)

// Task couples a runnable with an identifier and the status servers its
// stream is reported to. Tasks are how independent executions run under an
// external supervisor: the supervisor assigns ids and collects the
// interleaved streams by id.
type Task struct {
	id         string
	runnable   *Runnable
	statusURIs []string
}

// NewTask returns a Task. statusURIs lists "host:port" addresses of status
// servers; every message is forwarded to all of them.
func NewTask(id string, r *Runnable, statusURIs []string) *Task {
	return &Task{id: id, runnable: r, statusURIs: append([]string(nil), statusURIs...)}
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// Runnable returns the runnable the task executes.
func (t *Task) Runnable() *Runnable { return t.runnable }

// StatusURIs returns the addresses the task reports to.
func (t *Task) StatusURIs() []string { return append([]string(nil), t.statusURIs...) }

// Run executes the task's runnable with a runner from reg and forwards
// every status message, augmented with the task id, in order to every
// status URI. Connections are closed when the stream ends.
//
// Runner failures never reach here; the returned error covers only task
// plumbing (unknown kind, connection or encoding failures).
func (t *Task) Run(ctx context.Context, reg *Registry) error {
	r, ok := reg.Lookup(t.runnable.Kind())
	if !ok {
		return errors.Errorf("no runner registered for kind %q", t.runnable.Kind())
	}

	var writers []*status.MessageWriter
	var dialer net.Dialer
	for _, uri := range t.statusURIs {
		conn, err := dialer.DialContext(ctx, "tcp", uri)
		if err != nil {
			return errors.Wrapf(err, "failed to dial status server %s", uri)
		}
		defer conn.Close()
		writers = append(writers, status.NewMessageWriter(conn))
	}

	for msg := range r.Run(ctx, t.runnable) {
		msg.TaskID = t.id
		for i, w := range writers {
			if err := w.WriteMessage(&msg); err != nil {
				return errors.Wrapf(err, "failed to report to %s", t.statusURIs[i])
			}
		}
	}
	return ctx.Err()
}
