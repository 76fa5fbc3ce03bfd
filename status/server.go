// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package status

import (
	"net"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

// Server collects status messages sent by tasks over TCP.
//
// Each connection carries one newline-delimited JSON stream. Messages are
// handed to the handler in the order they arrive on their connection;
// messages from different connections may interleave.
type Server struct {
	lis     net.Listener
	handler func(*Message)
	g       errgroup.Group
}

// NewServer starts a new server accepting connections on lis. Ownership of
// lis is taken, so the caller must not call lis.Close. If maxConns is
// positive, at most that many connections are served at a time.
//
// handler is called for every decoded message and must be safe to call
// concurrently from multiple goroutines.
func NewServer(lis net.Listener, maxConns int, handler func(*Message)) *Server {
	if maxConns > 0 {
		lis = netutil.LimitListener(lis, maxConns)
	}
	s := &Server{lis: lis, handler: handler}
	s.g.Go(s.serve)
	return s
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Close stops accepting connections and waits for in-flight streams to
// drain. It returns the first decode error encountered, if any.
func (s *Server) Close() error {
	s.lis.Close()
	return s.g.Wait()
}

func (s *Server) serve() error {
	for {
		conn, err := s.lis.Accept()
		if err != nil {
			// The listener was closed.
			return nil
		}
		s.g.Go(func() error {
			return s.handleConn(conn)
		})
	}
}

func (s *Server) handleConn(conn net.Conn) error {
	defer conn.Close()
	mr := NewMessageReader(conn)
	for mr.More() {
		msg, err := mr.ReadMessage()
		if err != nil {
			return err
		}
		s.handler(msg)
	}
	return nil
}
