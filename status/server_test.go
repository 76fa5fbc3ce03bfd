// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package status

import (
	"net"
	"sync"
	gotesting "testing"

	"github.com/google/go-cmp/cmp"
)

func TestServer(t *gotesting.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("net.Listen failed: ", err)
	}

	var mu sync.Mutex
	var got []*Message
	// Closed once the terminal message has been handled.
	done := make(chan struct{})
	srv := NewServer(lis, 0, func(msg *Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
		if msg.Kind == KindFinished {
			close(done)
		}
	})

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal("net.Dial failed: ", err)
	}
	msgs := []*Message{
		{TaskID: "1-noop", Kind: KindStarted, Timestamp: 1},
		{TaskID: "1-noop", Kind: KindLog, Log: []byte("running noop"), Timestamp: 2},
		{TaskID: "1-noop", Kind: KindFinished, Result: ResultPass, Timestamp: 3},
	}
	mw := NewMessageWriter(conn)
	for _, msg := range msgs {
		if err := mw.WriteMessage(msg); err != nil {
			t.Fatalf("WriteMessage() failed for %v: %v", msg, err)
		}
	}
	conn.Close()

	<-done
	if err := srv.Close(); err != nil {
		t.Error("Close failed: ", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(got, msgs); diff != "" {
		t.Errorf("Messages mismatch (-got +want):\n%s", diff)
	}
}

func TestServer_BadStream(t *gotesting.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("net.Listen failed: ", err)
	}
	srv := NewServer(lis, 0, func(msg *Message) {})

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal("net.Dial failed: ", err)
	}
	if _, err := conn.Write([]byte("this is not JSON\n")); err != nil {
		t.Fatal("Write failed: ", err)
	}
	// The server closes the connection once it hits the corrupted input.
	conn.Read(make([]byte, 1))
	conn.Close()

	if err := srv.Close(); err == nil {
		t.Error("Close unexpectedly succeeded after a corrupted stream")
	}
}
