// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package status

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/feijoa-framework/feijoa/errors"
)

// MessageWriter is used by runner executables to write messages describing
// the state of execution. It is safe to call its methods concurrently from
// multiple goroutines.
type MessageWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewMessageWriter returns a new MessageWriter for writing to w.
func NewMessageWriter(w io.Writer) *MessageWriter {
	return &MessageWriter{enc: json.NewEncoder(w)}
}

// WriteMessage writes msg.
func (mw *MessageWriter) WriteMessage(msg *Message) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.enc.Encode(msg)
}

// MessageReader is used by the collecting process to interpret output from
// runner executables.
type MessageReader json.Decoder

// NewMessageReader returns a new MessageReader for reading from r.
func NewMessageReader(r io.Reader) *MessageReader {
	return (*MessageReader)(json.NewDecoder(r))
}

// More returns true if more messages are available.
func (mr *MessageReader) More() bool {
	return (*json.Decoder)(mr).More()
}

// ReadMessage reads and returns the next message.
func (mr *MessageReader) ReadMessage() (*Message, error) {
	dec := (*json.Decoder)(mr)
	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return nil, errors.Wrap(err, "unable to decode message")
	}
	switch msg.Kind {
	case KindStarted, KindLog, KindFinished:
		return &msg, nil
	default:
		return nil, errors.Errorf("unable to decode message of unknown kind %q", msg.Kind)
	}
}
