// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runner

import (
	"encoding/json"
	"os"

	"github.com/feijoa-framework/feijoa/errors"
)

// Runnable is an immutable description of a unit of work: a kind tag
// selecting the Runner variant, an optional locator, and named parameters.
//
// Runners must validate the parameters their kind requires before acting
// and must never mutate a Runnable.
type Runnable struct {
	kind       string
	uri        string
	parameters map[string]string
}

// NewRunnable returns a Runnable. uri may be empty when the kind needs no
// locator. parameters is copied, so later changes to the map passed in do
// not affect the Runnable.
func NewRunnable(kind, uri string, parameters map[string]string) *Runnable {
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}
	return &Runnable{kind: kind, uri: uri, parameters: params}
}

// Kind returns the tag selecting which Runner variant applies.
func (r *Runnable) Kind() string { return r.kind }

// URI returns the locator, or an empty string if absent.
func (r *Runnable) URI() string { return r.uri }

// Parameter returns the named parameter and whether it was set.
func (r *Runnable) Parameter(name string) (string, bool) {
	v, ok := r.parameters[name]
	return v, ok
}

// Parameters returns a copy of all parameters.
func (r *Runnable) Parameters() map[string]string {
	params := make(map[string]string, len(r.parameters))
	for k, v := range r.parameters {
		params[k] = v
	}
	return params
}

// recipe is the JSON form a Runnable is loaded from.
type recipe struct {
	Kind       string            `json:"kind"`
	URI        string            `json:"uri,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// LoadRecipe reads a Runnable from a JSON recipe file of the form
// {"kind": ..., "uri": ..., "parameters": {...}}.
func LoadRecipe(path string) (*Runnable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read recipe")
	}
	var rcp recipe
	if err := json.Unmarshal(b, &rcp); err != nil {
		return nil, errors.Wrapf(err, "failed to parse recipe %s", path)
	}
	if rcp.Kind == "" {
		return nil, errors.Errorf("recipe %s does not declare a kind", path)
	}
	return NewRunnable(rcp.Kind, rcp.URI, rcp.Parameters), nil
}
