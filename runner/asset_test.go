// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/runner"
	"github.com/feijoa-framework/feijoa/status"
	"github.com/feijoa-framework/feijoa/testutil"
)

// fakeFetcher is an asset.Fetcher returning a canned path or error.
type fakeFetcher struct {
	path string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func TestAssetRunner_NoName(t *testing.T) {
	r := runner.NewAssetRunner(&fakeFetcher{})
	msgs := collect(r.Run(context.Background(), runner.NewRunnable("asset", "", nil)))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
	if log := lastLog(t, msgs); !strings.Contains(log, "At least name should be passed") {
		t.Errorf("Last log = %q; want it to mention the missing name", log)
	}
}

func TestAssetRunner_WrongName(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)

	r := runner.NewAssetRunner(asset.NewCacheFetcher([]string{td}))
	rn := runner.NewRunnable("asset", "", map[string]string{"name": "foo"})
	msgs := collect(r.Run(context.Background(), rn))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
	if log := lastLog(t, msgs); !strings.Contains(log, "Failed to fetch foo (") {
		t.Errorf("Last log = %q; want it to contain %q", log, "Failed to fetch foo (")
	}
}

func TestAssetRunner_Fetch(t *testing.T) {
	r := runner.NewAssetRunner(&fakeFetcher{path: "/tmp/asset.txt"})
	rn := runner.NewRunnable("asset", "", map[string]string{"name": "asset.txt"})
	msgs := collect(r.Run(context.Background(), rn))

	if res := result(t, msgs); res != status.ResultPass {
		t.Errorf("Result = %q; want %q", res, status.ResultPass)
	}
	if log := lastLog(t, msgs); !strings.Contains(log, "File fetched at /tmp/asset.txt") {
		t.Errorf("Last log = %q; want it to contain %q", log, "File fetched at /tmp/asset.txt")
	}
}

func TestAssetRunner_FetchFailure(t *testing.T) {
	r := runner.NewAssetRunner(&fakeFetcher{err: errors.New("Failed to fetch asset.txt (connection refused)")})
	rn := runner.NewRunnable("asset", "", map[string]string{"name": "asset.txt"})
	msgs := collect(r.Run(context.Background(), rn))

	if res := result(t, msgs); res != status.ResultError {
		t.Errorf("Result = %q; want %q", res, status.ResultError)
	}
	if log := lastLog(t, msgs); !strings.Contains(log, "Failed to fetch asset.txt") {
		t.Errorf("Last log = %q; want it to contain %q", log, "Failed to fetch asset.txt")
	}
}
