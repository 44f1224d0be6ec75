// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"sync"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/storage"
)

// A requestFetch holds the metric files of one assembled request
// list once all of them have been fetched.
type requestFetch struct {
	reqs []benchseries.Request

	mu     sync.Mutex
	done   bool
	points map[benchseries.Key][]benchrun.MetricPoint
}

// get fetches the metric files of f's requests, or returns them if an
// earlier call fetched all of them. A fetch with failures is not kept.
func (f *requestFetch) get(ctx context.Context, c *storage.MetricCache) (map[benchseries.Key][]benchrun.MetricPoint, []error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return f.points, nil
	}
	points, errs := c.FetchAll(ctx, storage.Keys(f.reqs))
	if len(errs) == 0 {
		f.points, f.done = points, true
	}
	return points, errs
}

// fetchSeries fetches the metrics of reqs and builds their series.
// The list is propagated to the fetcher only when it differs from the
// last one propagated, so rendering the same comparison again, at a
// new width or as a single chart export, reuses the last fetch.
func (a *App) fetchSeries(ctx context.Context, reqs []benchseries.Request) ([]benchseries.Series, []error) {
	a.propagator().Update(reqs)
	a.fetchMu.Lock()
	f := a.fetch
	a.fetchMu.Unlock()
	if f == nil || !benchseries.EqualRequests(f.reqs, reqs) {
		// A concurrent request propagated another list.
		f = &requestFetch{reqs: reqs}
	}
	points, errs := f.get(ctx, a.metricCache())
	return benchseries.Build(reqs, points), errs
}
