// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testutil provides support code for unit tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TempDir creates a temporary directory prefixed by
// "feijoa_unittest_[TestName]." and returns its path. The caller is
// responsible for removing it. If the directory cannot be created, a
// fatal error is reported to t.
func TempDir(t *testing.T) string {
	t.Helper()
	// Subtest names contain slashes.
	prefix := "feijoa_unittest_" + strings.ReplaceAll(t.Name(), "/", "_") + "."
	td, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatal(err)
	}
	return td
}

// WriteFiles writes files within dir. Keys of files are slash-separated
// paths relative to dir, values are contents; missing parent directories
// are created.
func WriteFiles(dir string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// ReadFiles returns the contents of all regular files under dir, keyed
// by path relative to dir. It is the inverse of WriteFiles.
func ReadFiles(dir string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(b)
		return nil
	})
	return files, err
}

// AppendToFile appends data to the existing file at path.
func AppendToFile(path, data string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
