// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil escapes strings for literal inclusion in shell command
// lines, as used when rendering executed commands into logs.
package shutil

import "strings"

// safeRune reports whether c needs no quoting in POSIX shells. An equals
// sign is unsafe as the first rune of a word, where zsh applies
// =command expansion.
func safeRune(c rune, first bool) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	}
	switch c {
	case '_', '-', '@', '%', '+', ':', ',', '.', '/':
		return true
	case '=':
		return !first
	}
	return false
}

func safe(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if !safeRune(c, i == 0) {
			return false
		}
	}
	return true
}

// Escape quotes s so that a shell treats it as a single literal argument.
// Strings consisting only of safe characters are returned unchanged.
func Escape(s string) string {
	if safe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// EscapeSlice escapes each argument with Escape and joins them into one
// shell command line.
func EscapeSlice(args []string) string {
	escaped := make([]string, len(args))
	for i, arg := range args {
		escaped[i] = Escape(arg)
	}
	return strings.Join(escaped, " ")
}
