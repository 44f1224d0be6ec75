// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
)

// A DirSource reads a report from a local directory, the parent of the
// runner's output directory.
type DirSource struct {
	Dir string
}

func (d DirSource) open(p string) (io.ReadCloser, error) {
	name := filepath.Join(d.Dir, filepath.FromSlash(p))
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}

// Manifest reads the manifest.
func (d DirSource) Manifest(ctx context.Context) (*benchrun.Manifest, error) {
	f, err := d.open(benchrun.ManifestPath)
	if err != nil {
		return nil, err
	}
	return readManifest(f)
}

// Metrics reads the metric points of one role of a run.
func (d DirSource) Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error) {
	f, err := d.open(benchrun.MetricsPath(outputDir, role))
	if err != nil {
		return nil, err
	}
	return readMetrics(f)
}

// OutputDirs lists the subdirectories of the output directory.
func (d DirSource) OutputDirs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(d.Dir, "output"))
	if err != nil {
		return nil, errors.Wrap(err, "listing output directories")
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}
