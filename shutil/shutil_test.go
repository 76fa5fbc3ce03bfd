// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil_test

import (
	"testing"

	"github.com/feijoa-framework/feijoa/shutil"
)

func TestEscape(t *testing.T) {
	for _, c := range []struct {
		in, exp string
	}{
		{``, `''`},
		{` `, `' '`},
		{`\t`, `'\t'`},
		{`\n`, `'\n'`},
		{`ab`, `ab`},
		{`a b`, `'a b'`},
		{`ab `, `'ab '`},
		{` ab`, `' ab'`},
		{`AZaz09@%_+=:,./-`, `AZaz09@%_+=:,./-`},
		{`a!b`, `'a!b'`},
		{`'`, `''"'"''`},
		{`"`, `'"'`},
		{`=foo`, `'=foo'`},
		{`Feijoa's`, `'Feijoa'"'"'s'`},
	} {
		if s := shutil.Escape(c.in); s != c.exp {
			t.Errorf("Escape(%q) = %q; want %q", c.in, s, c.exp)
		}
	}
}

func TestEscapeSlice(t *testing.T) {
	for _, c := range []struct {
		in  []string
		exp string
	}{
		{nil, ``},
		{[]string{`foo`}, `foo`},
		{[]string{`foo`, `bar baz`}, `foo 'bar baz'`},
		{[]string{`/bin/sh`, `-c`, `echo $HOME`}, `/bin/sh -c 'echo $HOME'`},
	} {
		if s := shutil.EscapeSlice(c.in); s != c.exp {
			t.Errorf("EscapeSlice(%q) = %q; want %q", c.in, s, c.exp)
		}
	}
}
