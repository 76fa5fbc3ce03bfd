// Copyright 2025 The Feijoa Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package spawner

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"

	"github.com/feijoa-framework/feijoa/errors"
	"github.com/feijoa-framework/feijoa/logging"
	"github.com/feijoa-framework/feijoa/runner"
)

// runnerExecutable is the feijoa-runner path inside spawned containers.
// Images used with DockerSpawner must have the binary on PATH under this
// name.
const runnerExecutable = "feijoa-runner"

// DockerSpawner runs each task in a container. Containers share the host
// network namespace so the status URIs handed to the task stay reachable,
// and the asset cache directories are bind mounted at the same paths.
type DockerSpawner struct {
	// Image is the image to run tasks in.
	Image string
	// CacheDirs lists host asset cache directories mounted into each
	// container.
	CacheDirs []string

	cli *client.Client
}

var _ Spawner = (*DockerSpawner)(nil)

// NewDockerSpawner connects to the Docker daemon configured by the
// standard DOCKER_* environment variables. Call Close when done.
func NewDockerSpawner(image string, cacheDirs []string) (*DockerSpawner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create docker client")
	}
	return &DockerSpawner{Image: image, CacheDirs: cacheDirs, cli: cli}, nil
}

// Close releases the connection to the Docker daemon.
func (s *DockerSpawner) Close() error {
	return s.cli.Close()
}

// Spawn runs t in a fresh container and waits for it to exit. The
// container is removed afterwards even if the task fails.
func (s *DockerSpawner) Spawn(ctx context.Context, t *runner.Task) error {
	cmd := append([]string{runnerExecutable}, taskArgs(t, s.CacheDirs)...)
	binds := make([]string, 0, len(s.CacheDirs))
	for _, dir := range s.CacheDirs {
		binds = append(binds, dir+":"+dir)
	}
	created, err := s.cli.ContainerCreate(ctx, &container.Config{
		Image: s.Image,
		Cmd:   strslice.StrSlice(cmd),
	}, &container.HostConfig{
		NetworkMode: "host",
		Binds:       binds,
	}, nil, nil, "")
	if err != nil {
		return errors.Wrapf(err, "failed to create container for task %s", t.ID())
	}
	defer func() {
		// Removal uses a fresh context so a canceled ctx does not leak
		// the container.
		opts := types.ContainerRemoveOptions{Force: true}
		if err := s.cli.ContainerRemove(context.Background(), created.ID, opts); err != nil {
			logging.Infof(ctx, "Failed to remove container for task %s: %v", t.ID(), err)
		}
	}()
	logging.Debugf(ctx, "Task %s running in container %s", t.ID(), created.ID)

	if err := s.cli.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		return errors.Wrapf(err, "failed to start container for task %s", t.ID())
	}
	waitCh, errCh := s.cli.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case res := <-waitCh:
		if res.Error != nil {
			return errors.Errorf("container for task %s: %s", t.ID(), res.Error.Message)
		}
		if res.StatusCode != 0 {
			return errors.Errorf("container for task %s exited with status %d", t.ID(), res.StatusCode)
		}
		return nil
	case err := <-errCh:
		return errors.Wrapf(err, "failed to wait for container for task %s", t.ID())
	}
}
