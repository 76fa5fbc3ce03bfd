// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner

import (
	"context"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/status"
)

// AssetRunner executes runnables of kind "asset": it fetches the asset
// named by the mandatory "name" parameter and reports where it
// materialized.
type AssetRunner struct {
	fetcher asset.Fetcher
}

var _ Runner = &AssetRunner{}

// NewAssetRunner returns an AssetRunner fetching through fetcher.
func NewAssetRunner(fetcher asset.Fetcher) *AssetRunner {
	return &AssetRunner{fetcher: fetcher}
}

// Run implements Runner. The fetch is attempted exactly once; retry, if
// any, belongs to the fetcher.
func (r *AssetRunner) Run(ctx context.Context, rn *Runnable) <-chan status.Message {
	return stream(ctx, func(ctx context.Context, emit func(status.Message) bool) status.Result {
		name, ok := rn.Parameter("name")
		if !ok || name == "" {
			emit(status.Logf("At least name should be passed as parameters"))
			return status.ResultError
		}
		path, err := r.fetcher.Fetch(ctx, name)
		if err != nil {
			emit(status.Log([]byte(err.Error())))
			return status.ResultError
		}
		emit(status.Logf("File fetched at %s", path))
		return status.ResultPass
	})
}
