// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package status defines the messages describing the progress of executing
// a runnable, and the plumbing used to move them between processes.
//
// A runner reports progress as an ordered stream of messages. A typical
// sequence is as follows:
//
//	started  (execution began)
//		log  (progress or error text)
//		log
//	finished (execution ended; carries the result)
//
// Every stream begins with a started message and ends with exactly one
// finished message; the finished message is always last and always carries
// a result. The log message immediately preceding it describes the decisive
// action. Messages are JSON-marshaled for communication from runner
// executables to the collecting process.
package status

import (
	"fmt"
	"time"
)

// Kind identifies the type of a status message.
type Kind string

const (
	// KindStarted is the first message of every stream.
	KindStarted Kind = "started"
	// KindLog carries a human-readable progress or error payload.
	KindLog Kind = "log"
	// KindFinished is the terminal message of every stream.
	KindFinished Kind = "finished"
)

// Result is the terminal outcome reported by a finished message.
type Result string

const (
	// ResultPass indicates the runnable completed successfully.
	ResultPass Result = "pass"
	// ResultFail indicates a declared failure. Runners do not emit it;
	// it exists for the lifecycle layer, which distinguishes declared
	// failures from errors.
	ResultFail Result = "fail"
	// ResultError indicates validation or execution failed.
	ResultError Result = "error"
)

// Message is a single event in a status stream.
//
// TaskID is empty for messages emitted by a bare runner; it is filled in
// when a runner executes as part of a task so that collectors receiving
// interleaved streams can attribute each message.
type Message struct {
	TaskID    string  `json:"id,omitempty"`
	Kind      Kind    `json:"kind"`
	Log       []byte  `json:"log,omitempty"`
	Result    Result  `json:"result,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

// now is stubbed in unit tests.
var now = time.Now

// stamp returns the current time as seconds since the epoch.
func stamp() float64 {
	return float64(now().UnixNano()) / float64(time.Second)
}

// Started returns a new started message stamped with the current time.
func Started() Message {
	return Message{Kind: KindStarted, Timestamp: stamp()}
}

// Log returns a new log message carrying payload.
func Log(payload []byte) Message {
	return Message{Kind: KindLog, Log: payload, Timestamp: stamp()}
}

// Logf is similar to Log but formats its arguments using fmt.Sprintf.
func Logf(format string, args ...interface{}) Message {
	return Log([]byte(fmt.Sprintf(format, args...)))
}

// Finished returns the terminal message carrying result.
func Finished(result Result) Message {
	return Message{Kind: KindFinished, Result: result, Timestamp: stamp()}
}
