// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DurationFlag implements flag.Value to set a time.Duration from an integer
// command-line argument interpreted in predeclared units.
type DurationFlag struct {
	units time.Duration
	dst   *time.Duration
}

// NewDurationFlag returns a DurationFlag that parses integer arguments as
// multiples of units into dst. dst is set to def immediately so that the
// default applies when the flag is not supplied.
func NewDurationFlag(units time.Duration, dst *time.Duration, def time.Duration) *DurationFlag {
	f := &DurationFlag{units: units, dst: dst}
	*f.dst = def
	return f
}

// String implements flag.Value.
func (f *DurationFlag) String() string {
	// The flag package probes a zero-valued receiver for the default.
	if f.dst == nil {
		return ""
	}
	return strconv.FormatInt(int64(*f.dst / f.units), 10)
}

// Set implements flag.Value.
func (f *DurationFlag) Set(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*f.dst = time.Duration(n) * f.units
	return nil
}

// EnumFlag implements flag.Value to map a string argument drawn from a fixed
// set of valid values to an int passed to an assignment function.
type EnumFlag struct {
	valid  map[string]int
	assign EnumFlagAssignFunc
	def    string
}

// EnumFlagAssignFunc is called by EnumFlag to assign the parsed value.
type EnumFlagAssignFunc func(val int)

// NewEnumFlag returns an EnumFlag using the supplied map of valid values.
// def is assigned immediately and must appear in valid if non-empty.
func NewEnumFlag(valid map[string]int, assign EnumFlagAssignFunc, def string) *EnumFlag {
	f := &EnumFlag{valid: valid, assign: assign, def: def}
	if def != "" {
		if err := f.Set(def); err != nil {
			panic(fmt.Sprintf("Invalid default value %q", def))
		}
	}
	return f
}

// String implements flag.Value.
func (f *EnumFlag) String() string { return f.def }

// Set implements flag.Value.
func (f *EnumFlag) Set(v string) error {
	val, ok := f.valid[v]
	if !ok {
		var opts []string
		for opt := range f.valid {
			opts = append(opts, opt)
		}
		sort.Strings(opts)
		return fmt.Errorf("must be one of %s", strings.Join(opts, ", "))
	}
	f.assign(val)
	return nil
}

// ListFlag implements flag.Value to split a separator-delimited argument
// into a slice passed to an assignment function.
type ListFlag struct {
	sep    string
	assign ListFlagAssignFunc
	def    []string
}

// ListFlagAssignFunc is called by ListFlag to assign the parsed values.
type ListFlagAssignFunc func(vals []string)

// NewListFlag returns a ListFlag that splits its argument around sep.
// def is assigned immediately so that it applies when the flag is not
// supplied.
func NewListFlag(sep string, assign ListFlagAssignFunc, def []string) *ListFlag {
	f := &ListFlag{sep: sep, assign: assign, def: def}
	f.assign(def)
	return f
}

// String implements flag.Value.
func (f *ListFlag) String() string { return strings.Join(f.def, f.sep) }

// Set implements flag.Value.
func (f *ListFlag) Set(v string) error {
	f.assign(strings.Split(v, f.sep))
	return nil
}

// RepeatedFlag implements flag.Value by calling the function once per
// occurrence of the flag, so a flag can be supplied multiple times.
type RepeatedFlag func(v string) error

// String implements flag.Value.
func (f *RepeatedFlag) String() string { return "" }

// Set implements flag.Value.
func (f *RepeatedFlag) Set(v string) error { return (*f)(v) }
