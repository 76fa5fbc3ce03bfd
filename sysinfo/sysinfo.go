// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package sysinfo captures a snapshot of the system state before a run.
//
// The snapshot is a side channel for debugging environment problems; every
// part of it is best-effort. Individual collection failures are logged and
// skipped, never propagated to the caller.
package sysinfo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/process"
)

// Collector writes system snapshots into a directory.
type Collector struct {
	commands []string
}

// NewCollector returns a Collector. commands is an optional list of shell
// commands whose output is captured in addition to the built-in snapshots.
func NewCollector(commands []string) *Collector {
	return &Collector{commands: commands}
}

// Collect writes a snapshot of the current system state into dir, creating
// it if needed. It fails only if dir cannot be created; everything else is
// best-effort and logged via ctx.
func (c *Collector) Collect(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create sysinfo directory")
	}

	snapshots := []struct {
		name string
		get  func(ctx context.Context) (interface{}, error)
	}{
		{"host.json", func(ctx context.Context) (interface{}, error) { return host.InfoWithContext(ctx) }},
		{"cpu.json", func(ctx context.Context) (interface{}, error) { return cpu.InfoWithContext(ctx) }},
		{"memory.json", func(ctx context.Context) (interface{}, error) { return mem.VirtualMemoryWithContext(ctx) }},
		{"load.json", func(ctx context.Context) (interface{}, error) { return load.AvgWithContext(ctx) }},
		{"disk.json", func(ctx context.Context) (interface{}, error) { return disk.UsageWithContext(ctx, "/") }},
	}
	for _, s := range snapshots {
		v, err := s.get(ctx)
		if err != nil {
			logging.Infof(ctx, "Failed to collect %s: %v", s.name, err)
			continue
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			logging.Infof(ctx, "Failed to encode %s: %v", s.name, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, s.name), append(b, '\n'), 0644); err != nil {
			logging.Infof(ctx, "Failed to write %s: %v", s.name, err)
		}
	}

	for _, cmd := range c.commands {
		res, err := process.Run(ctx, "/bin/sh", "-c", cmd)
		if res == nil {
			logging.Infof(ctx, "Failed to run %q: %v", cmd, err)
			continue
		}
		if err != nil {
			logging.Infof(ctx, "Command %q did not succeed: %v", cmd, err)
		}
		if err := os.WriteFile(filepath.Join(dir, commandFileName(cmd)), []byte(res.Stdout), 0644); err != nil {
			logging.Infof(ctx, "Failed to write output of %q: %v", cmd, err)
		}
	}
	return nil
}

// commandFileName derives the snapshot file name for a captured command.
func commandFileName(cmd string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(cmd)
}
