// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

// parseNrunCmd creates an nrunCmd with args parsed.
func parseNrunCmd(t *testing.T, args []string) (*nrunCmd, *flag.FlagSet) {
	t.Helper()
	cmd := newNrunCmd()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	cmd.SetFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd, flags
}

func TestNrunMissingRunnable(t *testing.T) {
	cmd, flags := parseNrunCmd(t, nil)
	if status := cmd.Execute(context.Background(), flags); status != subcommands.ExitUsageError {
		t.Errorf("nrun returned %v; want %v", status, subcommands.ExitUsageError)
	}
}

func TestNrunRunnables(t *testing.T) {
	td := t.TempDir()
	noop := filepath.Join(td, "noop.json")
	if err := os.WriteFile(noop, []byte(`{"kind": "noop"}`), 0644); err != nil {
		t.Fatal("Failed to write recipe: ", err)
	}
	asset := filepath.Join(td, "asset.json")
	if err := os.WriteFile(asset, []byte(`{"kind": "asset", "parameters": {"name": "data.bin"}}`), 0644); err != nil {
		t.Fatal("Failed to write recipe: ", err)
	}

	cmd, _ := parseNrunCmd(t, []string{
		"-recipe", noop,
		"-recipe", asset,
		"-kind", "exec",
		"-uri", "/bin/true",
		"-param", "sleep=1",
	})
	rns, err := cmd.runnables()
	if err != nil {
		t.Fatal("runnables failed: ", err)
	}

	var kinds []string
	for _, rn := range rns {
		kinds = append(kinds, rn.Kind())
	}
	if diff := cmp.Diff([]string{"noop", "asset", "exec"}, kinds); diff != "" {
		t.Errorf("Runnable kinds mismatch (-want +got):\n%s", diff)
	}
	if v, ok := rns[1].Parameter("name"); !ok || v != "data.bin" {
		t.Errorf(`Recipe parameter name = %q, %v; want "data.bin"`, v, ok)
	}
	if rns[2].URI() != "/bin/true" {
		t.Errorf("Inline runnable uri = %q; want /bin/true", rns[2].URI())
	}
	if v, ok := rns[2].Parameter("sleep"); !ok || v != "1" {
		t.Errorf(`Inline parameter sleep = %q, %v; want "1"`, v, ok)
	}
}

func TestNrunBadRecipe(t *testing.T) {
	cmd, _ := parseNrunCmd(t, []string{"-recipe", filepath.Join(t.TempDir(), "missing.json")})
	if _, err := cmd.runnables(); err == nil {
		t.Error("runnables unexpectedly succeeded with a missing recipe")
	}
}

func TestNrunBadParam(t *testing.T) {
	cmd := newNrunCmd()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	cmd.SetFlags(flags)
	if err := flags.Parse([]string{"-param", "no-equals-sign"}); err == nil {
		t.Error("Parse unexpectedly accepted a malformed -param")
	}
}
