// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the feijoa-runner executable, which executes
// runnables and reports progress over the status protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/logging"
)

// Exit statuses of the subcommands.
const (
	statusError   = 1 // execution plumbing failed
	statusBadArgs = 2 // bad command-line arguments
)

// Version is the version info of this command. It is filled in at build
// time.
var Version = "<unknown>"

// doMain implements the main body of the program. It's a separate function
// so that its deferred functions will run before os.Exit makes the program
// exit immediately.
func doMain() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newCapabilitiesCmd(os.Stdout), "")
	subcommands.Register(newRunnableRunCmd(os.Stdout), "")
	subcommands.Register(newTaskRunCmd(), "")

	version := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "use verbose logging")
	flag.Parse()

	if *version {
		fmt.Printf("feijoa-runner version %s\n", Version)
		return 0
	}

	// Stdout carries the status stream, so logs go to stderr.
	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewSinkLogger(level, true, logging.NewWriterSink(os.Stderr))
	ctx := logging.AttachLogger(context.Background(), logger)

	command.InstallSignalHandler(os.Stderr, func(os.Signal) {})

	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
