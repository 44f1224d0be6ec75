// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries turns a set of matched runs into the named,
// colored series drawn on comparison charts.
//
// Assembly is split in two steps. Assemble produces one Request per
// run and role, naming the metric file to fetch. Once the metric
// points are fetched, Build pairs them with their requests to produce
// Series.
package benchseries

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/aclements/go-moremath/scale"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchunit"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// DefaultGroupBy is the configuration key series are split by when
// nothing else is selected.
const DefaultGroupBy = benchrun.RoleKey

// A Request names one metric file to fetch and how the resulting
// series is presented.
type Request struct {
	OutputDir string
	Role      string
	Name      string

	// Color is a CSS color, or "" to use the chart's categorical
	// palette.
	Color string

	// Thresholds are those of the originating run, if any.
	Thresholds *benchrun.Thresholds
}

// Key returns the fetch key of r.
func (r Request) Key() Key {
	return Key{OutputDir: r.OutputDir, Role: r.Role}
}

// A Key identifies one per-run, per-role metric file.
type Key struct {
	OutputDir, Role string
}

func (k Key) String() string {
	return benchrun.MetricsPath(k.OutputDir, k.Role)
}

// WithRoles returns two copies of each run, one tagged with each role
// under benchrun.RoleKey. The configuration of runs is not modified.
func WithRoles(runs []benchrun.Run) []benchrun.Run {
	out := make([]benchrun.Run, 0, len(runs)*len(benchrun.Roles))
	for _, r := range runs {
		for _, role := range benchrun.Roles {
			out = append(out, r.WithConfig(benchrun.RoleKey, role))
		}
	}
	return out
}

// Assemble returns one request per role-tagged run in runs, named by
// the run's value of the byMetric key. Runs without an output
// directory, configuration or role are skipped with a warning.
//
// If every request's group value is numeric, requests are colored
// along a continuous gradient by their normalized value. Otherwise
// Color is left empty.
func Assemble(runs []benchrun.Run, byMetric string) []Request {
	if byMetric == "" {
		byMetric = DefaultGroupBy
	}

	var reqs []Request
	var values []float64
	numeric := true
	for i := range runs {
		r := &runs[i]
		role, hasRole := r.Config(benchrun.RoleKey)
		if r.OutputDir == "" || r.TestConfig == nil || !hasRole {
			grip.Warning(message.Fields{
				"message":    "skipping run without output directory, configuration or role",
				"run":        r.ID,
				"output_dir": r.OutputDir,
			})
			continue
		}

		name, _ := r.Config(byMetric)
		v, ok := benchrun.Number(r.TestConfig[byMetric])
		if !ok || math.IsNaN(v) {
			numeric = false
		}
		values = append(values, v)
		if byMetric == benchrun.GasLimitKey && ok {
			name = benchunit.Format(v, benchunit.Gas)
		}
		reqs = append(reqs, Request{
			OutputDir:  r.OutputDir,
			Role:       role,
			Name:       name,
			Thresholds: r.Thresholds,
		})
	}

	if numeric && len(reqs) > 0 {
		g := NewGradient(values)
		for i := range reqs {
			reqs[i].Color = g.Color(values[i])
		}
	}
	return reqs
}

// A Gradient maps numbers onto a continuous color scale.
type Gradient struct {
	norm scale.Linear
	cmap palette.ColorMap
}

// NewGradient returns a Gradient spanning the range of values.
func NewGradient(values []float64) *Gradient {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(0)
	cmap.SetMax(1)
	return &Gradient{norm: scale.Linear{Min: min, Max: max}, cmap: cmap}
}

// Position returns the position of v in [0, 1] along the gradient.
// When the gradient's range is empty every value is at 0.5.
func (g *Gradient) Position(v float64) float64 {
	if !(g.norm.Max > g.norm.Min) {
		return 0.5
	}
	t := g.norm.Map(v)
	return math.Max(0, math.Min(1, t))
}

// Color returns the CSS color of v.
func (g *Gradient) Color(v float64) string {
	c, err := g.cmap.At(g.Position(v))
	if err != nil {
		return ""
	}
	return hexColor(c)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// A Propagator forwards request lists to a sink, suppressing a list
// that is deeply equal to the last one forwarded.
type Propagator struct {
	mu   sync.Mutex
	last []Request
	sink func([]Request)
}

// NewPropagator returns a Propagator forwarding to sink.
func NewPropagator(sink func([]Request)) *Propagator {
	return &Propagator{sink: sink}
}

// Update forwards reqs to the sink unless it equals the previously
// forwarded list. Nothing has been forwarded initially, which counts
// as an empty list. It reports whether reqs was forwarded.
func (p *Propagator) Update(reqs []Request) bool {
	p.mu.Lock()
	if EqualRequests(p.last, reqs) {
		p.mu.Unlock()
		return false
	}
	p.last = append([]Request(nil), reqs...)
	p.mu.Unlock()

	p.sink(reqs)
	return true
}

// EqualRequests reports whether a and b are deeply equal. A nil list
// equals an empty one.
func EqualRequests(a, b []Request) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Last returns the most recently forwarded list.
func (p *Propagator) Last() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
