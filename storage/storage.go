// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage fetches benchmark manifests and per-run metric files
// from where the benchmark runner left them: a report server, a local
// directory or a Cloud Storage bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
)

// A Source provides the manifest and metric files of one report.
type Source interface {
	// Manifest returns the report's manifest.
	Manifest(ctx context.Context) (*benchrun.Manifest, error)

	// Metrics returns the metric points of one role of the run
	// whose output is in outputDir.
	Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error)
}

// A DirLister lists the run output directories present in a report.
// DirSource and BucketSource are DirListers.
type DirLister interface {
	OutputDirs(ctx context.Context) ([]string, error)
}

// MissingOutputDirs returns the output directories of the runs of m
// that l does not list, in manifest order.
func MissingOutputDirs(ctx context.Context, l DirLister, m *benchrun.Manifest) ([]string, error) {
	dirs, err := l.OutputDirs(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		present[d] = true
	}
	var missing []string
	for _, r := range m.Runs {
		if r.OutputDir != "" && !present[r.OutputDir] {
			missing = append(missing, r.OutputDir)
		}
	}
	return missing, nil
}

// ErrNotFound is returned by sources when a file does not exist.
var ErrNotFound = errors.New("not found")

// A FetchError reports that the metrics of one run and role could not
// be fetched.
type FetchError struct {
	OutputDir, Role string
	Err             error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching metrics for %s (%s): %v", e.OutputDir, e.Role, e.Err)
}

// Cause returns the underlying error, for errors.Cause.
func (e *FetchError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrNoData is the error of a FetchError for a metric file with no
// points.
var ErrNoData = errors.New("no data")

func readManifest(r io.ReadCloser) (*benchrun.Manifest, error) {
	defer r.Close()
	return benchrun.ReadManifest(r)
}

func readMetrics(r io.ReadCloser) ([]benchrun.MetricPoint, error) {
	defer r.Close()
	return benchrun.ReadMetrics(r)
}
