// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"context"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/pkg/errors"
)

// A Source serves the runs stored in a DB matching Query as a
// manifest. Metric files are not stored in the database and are read
// from Files.
type Source struct {
	DB    *DB
	Query string
	Files storage.Source
}

// Manifest returns the matching runs.
func (s *Source) Manifest(ctx context.Context) (*benchrun.Manifest, error) {
	runs, err := s.DB.Runs(ctx, s.Query)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %q", s.Query)
	}
	return &benchrun.Manifest{Runs: runs}, nil
}

// Metrics reads the metric points of one role of a run from s.Files.
func (s *Source) Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error) {
	if s.Files == nil {
		return nil, errors.Wrap(storage.ErrNotFound, benchrun.MetricsPath(outputDir, role))
	}
	return s.Files.Metrics(ctx, outputDir, role)
}

// OutputDirs lists the output directories of s.Files, if it can list
// them.
func (s *Source) OutputDirs(ctx context.Context) ([]string, error) {
	l, ok := s.Files.(storage.DirLister)
	if !ok {
		return nil, errors.New("metric files cannot be listed")
	}
	return l.OutputDirs(ctx)
}
