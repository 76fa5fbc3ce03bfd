// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/runner"
)

// capabilitiesCmd implements subcommands.Command to describe what this
// runner can execute.
type capabilitiesCmd struct {
	out io.Writer
}

var _ = subcommands.Command(&capabilitiesCmd{})

func newCapabilitiesCmd(out io.Writer) *capabilitiesCmd {
	return &capabilitiesCmd{out: out}
}

func (*capabilitiesCmd) Name() string     { return "capabilities" }
func (*capabilitiesCmd) Synopsis() string { return "print the supported runnable kinds as JSON" }
func (*capabilitiesCmd) Usage() string {
	return `Usage: capabilities

Description:
    Prints a JSON description of the runnable kinds this executable
    supports, so supervisors can check compatibility before spawning
    tasks.

`
}

func (*capabilitiesCmd) SetFlags(f *flag.FlagSet) {}

// capabilities is the JSON document printed by the command.
type capabilities struct {
	Kinds []string `json:"kinds"`
}

func (c *capabilitiesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	caps := capabilities{Kinds: runner.DefaultRegistry(asset.NewCacheFetcher(nil)).Kinds()}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&caps); err != nil {
		return subcommands.ExitStatus(command.WriteError(os.Stderr, err))
	}
	return subcommands.ExitSuccess
}
