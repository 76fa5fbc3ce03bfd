// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"strings"

	"github.com/feijoa-framework/feijoa/asset"
	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/internal/command"
	"github.com/feijoa-framework/feijoa/internal/config"
	"github.com/feijoa-framework/feijoa/runner"
)

// runnableFlags describes a runnable on the command line, either as a
// recipe file or inline as -kind/-uri/-param.
type runnableFlags struct {
	recipe    string
	kind      string
	uri       string
	params    map[string]string
	cacheDirs []string
}

func newRunnableFlags() runnableFlags {
	return runnableFlags{params: make(map[string]string)}
}

func (r *runnableFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.recipe, "recipe", "", "JSON recipe file describing the runnable")
	f.StringVar(&r.kind, "kind", "", "kind of the runnable")
	f.StringVar(&r.uri, "uri", "", "uri of the runnable")
	pf := command.RepeatedFlag(func(v string) error {
		kv := strings.SplitN(v, "=", 2)
		if len(kv) != 2 {
			return errors.New("must be key=value")
		}
		r.params[kv[0]] = kv[1]
		return nil
	})
	f.Var(&pf, "param", "key=value parameter of the runnable (may be repeated)")
	f.Var(command.NewListFlag(",", func(v []string) { r.cacheDirs = v }, config.Default().CacheDirs),
		"cachedirs", "comma-separated asset cache directories")
}

// runnable builds the Runnable described by the flags. The recipe file
// wins if both forms are given.
func (r *runnableFlags) runnable() (*runner.Runnable, error) {
	if r.recipe != "" {
		return runner.LoadRecipe(r.recipe)
	}
	if r.kind == "" {
		return nil, errors.New("no runnable given; use -recipe or -kind")
	}
	return runner.NewRunnable(r.kind, r.uri, r.params), nil
}

// registry returns the runner registry backed by the configured caches.
func (r *runnableFlags) registry() *runner.Registry {
	return runner.DefaultRegistry(asset.NewCacheFetcher(r.cacheDirs))
}
