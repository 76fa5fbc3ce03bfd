// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package asset_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/testutil"
)

func TestCacheFetcher(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)

	first := filepath.Join(td, "first")
	second := filepath.Join(td, "second")
	if err := testutil.WriteFiles(td, map[string]string{
		"second/asset.txt": "from second",
		"second/both.txt":  "from second",
		"first/both.txt":   "from first",
	}); err != nil {
		t.Fatal(err)
	}

	f := asset.NewCacheFetcher([]string{first, second})
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		want string
	}{
		{"asset.txt", filepath.Join(second, "asset.txt")},
		// Earlier cache directories win.
		{"both.txt", filepath.Join(first, "both.txt")},
		// URIs resolve by their basename.
		{"https://assets.example.com/pool/asset.txt", filepath.Join(second, "asset.txt")},
	} {
		got, err := f.Fetch(ctx, tc.name)
		if err != nil {
			t.Errorf("Fetch(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Fetch(%q) = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestCacheFetcher_Missing(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)

	f := asset.NewCacheFetcher([]string{td})
	_, err := f.Fetch(context.Background(), "foo")
	if err == nil {
		t.Fatal("Fetch unexpectedly succeeded for a missing asset")
	}
	if !strings.Contains(err.Error(), "Failed to fetch foo (") {
		t.Errorf("Fetch error = %q; want it to contain %q", err.Error(), "Failed to fetch foo (")
	}
}

func TestCacheFetcher_Canceled(t *testing.T) {
	td := testutil.TempDir(t)
	defer os.RemoveAll(td)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := asset.NewCacheFetcher([]string{td})
	if _, err := f.Fetch(ctx, "foo"); err != context.Canceled {
		t.Errorf("Fetch returned %v; want context.Canceled", err)
	}
}
