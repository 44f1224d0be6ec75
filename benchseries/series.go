// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
)

// A Series is the metric points of one run and role, ordered by block
// number.
type Series struct {
	Name string

	// Color is a CSS color, or "" to use Palette.
	Color string

	Points     []benchrun.MetricPoint
	Thresholds *benchrun.Thresholds
}

// Build pairs each request with its fetched points. Requests with no
// entry in points are left out. Build does not modify points.
func Build(reqs []Request, points map[Key][]benchrun.MetricPoint) []Series {
	var out []Series
	for _, req := range reqs {
		pts, ok := points[req.Key()]
		if !ok {
			continue
		}
		pts = append([]benchrun.MetricPoint(nil), pts...)
		sort.SliceStable(pts, func(i, j int) bool {
			return pts[i].BlockNumber < pts[j].BlockNumber
		})
		out = append(out, Series{
			Name:       req.Name,
			Color:      req.Color,
			Points:     pts,
			Thresholds: req.Thresholds,
		})
	}
	return out
}

// Value returns the value of metric at point i, or NaN if the point
// has no such value.
func (s *Series) Value(i int, metric string) float64 {
	return s.Points[i].Value(metric)
}

// Has reports whether any point of s has a value for metric.
func (s *Series) Has(metric string) bool {
	for i := range s.Points {
		if !math.IsNaN(s.Value(i, metric)) {
			return true
		}
	}
	return false
}

// HasMetric reports whether any of series has a value for metric.
func HasMetric(series []Series, metric string) bool {
	for i := range series {
		if series[i].Has(metric) {
			return true
		}
	}
	return false
}

// Palette is the categorical palette series without a color of their
// own are drawn in, by series index.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ColorOf returns the CSS color series i is drawn in.
func ColorOf(series []Series, i int) string {
	if c := series[i].Color; c != "" {
		return c
	}
	return Palette[i%len(Palette)]
}

// ParseColor parses a "#rrggbb" or "#rgb" CSS color.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, errors.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Errorf("bad color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
