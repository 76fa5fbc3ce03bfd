// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feijoa-framework/feijoa/testutil"
)

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandName(t *testing.T) {
	for _, tc := range []struct {
		path, want string
	}{
		{"/usr/share/feijoa/sleeptest.sh", "sleeptest"},
		{"passtest.sh.in", "passtest"},
		{"plain", "plain"},
	} {
		if got := CommandName(tc.path); got != tc.want {
			t.Errorf("CommandName(%q) = %q; want %q", tc.path, got, tc.want)
		}
	}
}

func TestCommandCase(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)
	path := writeScript(t, td, "oktest.sh", "echo all good")

	tst := newTest(t, &Config{Name: CommandName(path)})
	if err := Run(context.Background(), tst, NewCommandCase(path)); err != nil {
		t.Fatal("Run failed: ", err)
	}

	if tst.Status() != StatusPass {
		t.Errorf("Status = %q; want %q", tst.Status(), StatusPass)
	}
	// The structured command result is logged line by line.
	for _, want := range []string{"Command: " + path, "Exit status: 0", "all good"} {
		if !strings.Contains(tst.TextOutput(), want) {
			t.Errorf("Log does not contain %q: %q", want, tst.TextOutput())
		}
	}
}

func TestCommandCase_Fail(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)
	path := writeScript(t, td, "failtest.sh", "echo going down; exit 3")

	tst := newTest(t, &Config{Name: CommandName(path)})
	if err := Run(context.Background(), tst, NewCommandCase(path)); err != nil {
		t.Fatal("Run failed: ", err)
	}

	if tst.Status() != StatusFail || tst.FailClass() != "Failure" {
		t.Errorf("Outcome = (%q, %q); want (FAIL, Failure)", tst.Status(), tst.FailClass())
	}
	if !strings.Contains(tst.FailReason(), "exit status 3") {
		t.Errorf("FailReason = %q; want exit status 3", tst.FailReason())
	}
	for _, want := range []string{"Exit status: 3", "going down"} {
		if !strings.Contains(tst.TextOutput(), want) {
			t.Errorf("Log does not contain %q: %q", want, tst.TextOutput())
		}
	}
}

func TestCommandCase_StartFailure(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)

	// A command that cannot start is an unexpected error, not a failure.
	tst := newTest(t, &Config{Name: "missing"})
	if err := Run(context.Background(), tst, NewCommandCase(filepath.Join(td, "missing.sh"))); err != nil {
		t.Fatal("Run failed: ", err)
	}
	if tst.Status() != StatusError || tst.FailClass() != "Error" {
		t.Errorf("Outcome = (%q, %q); want (ERROR, Error)", tst.Status(), tst.FailClass())
	}
}
