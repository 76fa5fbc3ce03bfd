// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/feijoa-framework/feijoa/errors"
)

// allocateTag probes candidate tags 1, 2, 3, ... under resultsRoot and
// returns the first whose name.<tag> directory does not exist. It only
// checks for existence; the caller creates the directory afterwards, so
// concurrent allocations against the same results root may collide. Use
// allocateTagAtomic in that case.
func allocateTag(resultsRoot, name string) (tag, taggedName string) {
	for n := 1; ; n++ {
		tag = strconv.Itoa(n)
		taggedName = fmt.Sprintf("%s.%s", name, tag)
		if !isDir(filepath.Join(resultsRoot, taggedName)) {
			return tag, taggedName
		}
	}
}

// allocateTagAtomic probes like allocateTag but claims the tag by creating
// its directory exclusively, moving on to the next candidate on collision.
// Safe for concurrent callers sharing resultsRoot.
func allocateTagAtomic(resultsRoot, name string) (tag, taggedName string, err error) {
	for n := 1; ; n++ {
		tag = strconv.Itoa(n)
		taggedName = fmt.Sprintf("%s.%s", name, tag)
		err := os.Mkdir(filepath.Join(resultsRoot, taggedName), 0755)
		if err == nil {
			return tag, taggedName, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrapf(err, "failed to claim log directory for %s", taggedName)
		}
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
