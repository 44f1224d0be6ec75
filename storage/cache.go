// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"sync"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchseries"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"golang.org/x/sync/singleflight"
)

// A MetricCache fetches metric files from a Source, at most once per
// run and role. Concurrent requests for the same file share one fetch.
// Fetched files are kept in memory for the life of the cache; failed
// fetches are not.
type MetricCache struct {
	src   Source
	group singleflight.Group

	mu      sync.RWMutex
	entries map[benchseries.Key][]benchrun.MetricPoint
}

// NewMetricCache returns a cache in front of src.
func NewMetricCache(src Source) *MetricCache {
	return &MetricCache{src: src, entries: make(map[benchseries.Key][]benchrun.MetricPoint)}
}

// Source returns the source the cache reads from.
func (c *MetricCache) Source() Source {
	return c.src
}

// Cached returns the points of key if they have been fetched.
func (c *MetricCache) Cached(key benchseries.Key) ([]benchrun.MetricPoint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pts, ok := c.entries[key]
	return pts, ok
}

// Get returns the metric points of key, fetching them if needed. A
// file without points is reported as a *FetchError wrapping ErrNoData.
// Every error returned is a *FetchError.
//
// The fetch is shared by all callers of key and is not canceled with
// ctx. If ctx is done first, Get returns ctx's error and the fetch
// continues for the remaining callers.
func (c *MetricCache) Get(ctx context.Context, key benchseries.Key) ([]benchrun.MetricPoint, error) {
	if pts, ok := c.Cached(key); ok {
		return pts, nil
	}
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (interface{}, error) {
		if pts, ok := c.Cached(key); ok {
			return pts, nil
		}
		pts, err := c.src.Metrics(fetchCtx, key.OutputDir, key.Role)
		if err == nil && len(pts) == 0 {
			err = ErrNoData
		}
		if err != nil {
			return nil, &FetchError{OutputDir: key.OutputDir, Role: key.Role, Err: err}
		}
		c.mu.Lock()
		c.entries[key] = pts
		c.mu.Unlock()
		return pts, nil
	})
	select {
	case <-ctx.Done():
		return nil, &FetchError{OutputDir: key.OutputDir, Role: key.Role, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]benchrun.MetricPoint), nil
	}
}

// FetchAll fetches every key concurrently. It returns the points of
// the keys that could be fetched and one *FetchError per key that
// could not; a failed key does not affect the others.
func (c *MetricCache) FetchAll(ctx context.Context, keys []benchseries.Key) (map[benchseries.Key][]benchrun.MetricPoint, []error) {
	type result struct {
		key benchseries.Key
		pts []benchrun.MetricPoint
		err error
	}
	results := make([]result, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key benchseries.Key) {
			defer wg.Done()
			pts, err := c.Get(ctx, key)
			results[i] = result{key, pts, err}
		}(i, key)
	}
	wg.Wait()

	out := make(map[benchseries.Key][]benchrun.MetricPoint)
	var errs []error
	for _, r := range results {
		if r.err != nil {
			grip.Warning(message.WrapError(r.err, message.Fields{
				"message":    "metric fetch failed",
				"output_dir": r.key.OutputDir,
				"role":       r.key.Role,
			}))
			errs = append(errs, r.err)
			continue
		}
		out[r.key] = r.pts
	}
	return out, errs
}

// Keys returns the distinct fetch keys of reqs, in order.
func Keys(reqs []benchseries.Request) []benchseries.Key {
	seen := make(map[benchseries.Key]bool)
	var keys []benchseries.Key
	for _, r := range reqs {
		if k := r.Key(); !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
