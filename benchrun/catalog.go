// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"fmt"
	"time"
)

// LatestAlias names the benchmark run that was created most recently.
const LatestAlias = "latest"

// A Catalog is an immutable set of runs. It is safe for concurrent
// use by multiple goroutines.
type Catalog struct {
	runs []Run
	byID map[string]int
}

// NewCatalog returns a catalog over a copy of runs. Runs without an
// ID get one from DeriveID.
func NewCatalog(runs []Run) *Catalog {
	c := &Catalog{
		runs: make([]Run, len(runs)),
		byID: make(map[string]int, len(runs)),
	}
	copy(c.runs, runs)
	for i := range c.runs {
		c.runs[i].ID = DeriveID(&c.runs[i])
		if _, dup := c.byID[c.runs[i].ID]; !dup {
			c.byID[c.runs[i].ID] = i
		}
	}
	return c
}

// Runs returns the runs of c in manifest order. The caller must not
// modify the returned slice.
func (c *Catalog) Runs() []Run {
	return c.runs
}

// Len returns the number of runs in c.
func (c *Catalog) Len() int {
	return len(c.runs)
}

// Lookup returns the run with the given ID.
func (c *Catalog) Lookup(id string) (*Run, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.runs[i], true
}

// Latest returns the run with the newest creation time. Runs without
// a creation time sort before all others. It returns nil if c is
// empty.
func (c *Catalog) Latest() *Run {
	var latest *Run
	for i := range c.runs {
		r := &c.runs[i]
		if latest == nil || newer(r.CreatedAt, latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}

func newer(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	return b == nil || a.After(*b)
}

// A BenchmarkRun is the set of runs produced by one invocation of the
// benchmark runner.
type BenchmarkRun struct {
	ID    string
	Label string
	Runs  []Run
	// Success counts the runs that completed successfully.
	Success int
}

// Total returns the number of runs in b.
func (b *BenchmarkRun) Total() int {
	return len(b.Runs)
}

// Summary returns the label of b followed by its success count.
func (b *BenchmarkRun) Summary() string {
	return fmt.Sprintf("%s - %d / %d", b.Label, b.Success, b.Total())
}

// BenchmarkRuns groups the runs of c by their BenchmarkRun tag, in
// order of first appearance. Runs without the tag are not included.
func (c *Catalog) BenchmarkRuns() []*BenchmarkRun {
	var out []*BenchmarkRun
	index := make(map[string]*BenchmarkRun)
	for _, r := range c.runs {
		id := r.BenchmarkRunID()
		if id == "" {
			continue
		}
		b, ok := index[id]
		if !ok {
			b = &BenchmarkRun{ID: id, Label: runLabel(&r)}
			index[id] = b
			out = append(out, b)
		}
		b.Runs = append(b.Runs, r)
		if r.Result != nil && r.Result.Complete && r.Result.Success {
			b.Success++
		}
	}
	return out
}

func runLabel(r *Run) string {
	if r.CreatedAt == nil {
		return r.TestName
	}
	return r.TestName + " - " + r.CreatedAt.Format("1/2/06, 3:04 PM")
}

// Resolve maps a benchmark run identifier to a concrete one, turning
// LatestAlias into the benchmark run of the newest run.
func (c *Catalog) Resolve(benchmarkRunID string) string {
	if benchmarkRunID != LatestAlias {
		return benchmarkRunID
	}
	if latest := c.Latest(); latest != nil {
		return latest.BenchmarkRunID()
	}
	return ""
}

// Scope returns the runs of one benchmark run. An empty ID, or an
// alias that resolves to no benchmark run, selects every run. The
// result is false if benchmarkRunID names no known benchmark run.
func (c *Catalog) Scope(benchmarkRunID string) ([]Run, bool) {
	id := c.Resolve(benchmarkRunID)
	if id == "" {
		return c.runs, true
	}
	var out []Run
	for _, r := range c.runs {
		if r.BenchmarkRunID() == id {
			out = append(out, r)
		}
	}
	return out, len(out) > 0
}
