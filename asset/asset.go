// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package asset resolves named assets to local files.
//
// Transport mechanics (downloads, checksum verification) are intentionally
// behind the Fetcher interface; the harness only depends on the seam.
package asset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/feijoa-framework/feijoa/errors"
)

// Fetcher resolves an asset name to a local path.
type Fetcher interface {
	// Fetch returns the local path the named asset materialized at.
	// name may be a plain basename or a URI; implementations decide how
	// much of it they honor.
	Fetch(ctx context.Context, name string) (string, error)
}

// CacheFetcher is a Fetcher that resolves assets by basename across a fixed
// list of cache directories, in order. It never writes; populating the
// caches is the operator's concern.
type CacheFetcher struct {
	cacheDirs []string
}

var _ Fetcher = &CacheFetcher{}

// NewCacheFetcher returns a CacheFetcher looking up assets in cacheDirs.
func NewCacheFetcher(cacheDirs []string) *CacheFetcher {
	return &CacheFetcher{cacheDirs: cacheDirs}
}

// Fetch returns the path of the first cache entry whose basename matches
// name's basename.
func (f *CacheFetcher) Fetch(ctx context.Context, name string) (string, error) {
	base := filepath.Base(name)
	for _, dir := range f.cacheDirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := filepath.Join(dir, base)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.Errorf("Failed to fetch %s (not found in any cache directory)", name)
}
