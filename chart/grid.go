// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/hover"
	"github.com/pkg/errors"
)

// A Grid is the charts of one comparison page. Its charts share a
// hover hub, so a pointer over any of them moves the cursor of all.
type Grid struct {
	Hub    *hover.Hub
	Charts []*Chart

	cancels []func()
}

// NewGrid returns a grid with one chart per definition that at least
// one series has data for, each sized for a container width pixels
// wide.
func NewGrid(defs []Definition, series []benchseries.Series, width float64) *Grid {
	g := &Grid{Hub: new(hover.Hub)}
	for _, def := range defs {
		if !benchseries.HasMetric(series, def.Key) {
			continue
		}
		c := New(fmt.Sprintf("chart-%d", len(g.Charts)), def, series, width)
		g.Charts = append(g.Charts, c)
		g.cancels = append(g.cancels, c.Subscribe(g.Hub))
	}
	return g
}

// Close unsubscribes the grid's charts from its hub.
func (g *Grid) Close() {
	for _, cancel := range g.cancels {
		cancel()
	}
	g.cancels = nil
}

// Precompute broadcasts a hover at every block of the grid, so each
// chart records the frame it shows there, then ends the hover.
func (g *Grid) Precompute() {
	if len(g.Charts) == 0 {
		return
	}
	origin := g.Charts[0]
	x, _ := origin.Axes()
	var all []benchseries.Series
	for _, c := range g.Charts {
		all = append(all, c.Series...)
	}
	for _, b := range blocks(all) {
		g.Hub.Hover(hover.Event{ChartID: origin.ID, MouseX: x.Map(float64(b))})
	}
	g.Hub.End()
}

// A Rendered chart is the SVG document of one chart of a grid.
type Rendered struct {
	ID     string
	Metric string
	Title  string
	SVG    []byte
}

// Render precomputes hover frames and renders every chart.
func (g *Grid) Render(cache *Cache) ([]Rendered, error) {
	g.Precompute()
	out := make([]Rendered, 0, len(g.Charts))
	for _, c := range g.Charts {
		var buf bytes.Buffer
		if err := c.Render(&buf, cache); err != nil {
			return nil, errors.Wrapf(err, "rendering %s", c.Key)
		}
		out = append(out, Rendered{ID: c.ID, Metric: c.Key, Title: c.Title, SVG: buf.Bytes()})
	}
	return out, nil
}

func blocks(series []benchseries.Series) []uint64 {
	seen := make(map[uint64]bool)
	var bs []uint64
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.BlockNumber] {
				seen[p.BlockNumber] = true
				bs = append(bs, p.BlockNumber)
			}
		}
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return bs
}
