// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders metric series as SVG line charts and lays out
// grids of charts that share a hover cursor.
package chart

import "math"

// Layout constants, in pixels.
const (
	topMargin   = 20
	titleSpace  = 50
	legendSpace = 20
	xAxisSpace  = 40
	yAxisSpace  = 60

	aspectRatio = 0.5

	minWidth  = 100
	minHeight = 50
)

// Margin is the space around a chart's plotting area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for the title, axes and legend.
var DefaultMargin = Margin{
	Top:    topMargin + titleSpace,
	Right:  40,
	Bottom: xAxisSpace + legendSpace,
	Left:   yAxisSpace,
}

// Dims are the pixel dimensions of a chart. Width and Height are
// those of the plotting area.
type Dims struct {
	Width, Height float64
	Margin        Margin
}

// Dimensions returns the dimensions of a chart drawn in a container
// containerWidth pixels wide. The plotting area never shrinks below
// 100 by 50 pixels.
func Dimensions(containerWidth float64) Dims {
	m := DefaultMargin
	h := containerWidth * aspectRatio
	return Dims{
		Width:  math.Max(minWidth, containerWidth-m.Left-m.Right),
		Height: math.Max(minHeight, h-m.Top-m.Bottom),
		Margin: m,
	}
}

// OuterWidth returns the width of the whole chart.
func (d Dims) OuterWidth() float64 {
	return d.Width + d.Margin.Left + d.Margin.Right
}

// OuterHeight returns the height of the whole chart.
func (d Dims) OuterHeight() float64 {
	return d.Height + d.Margin.Top + d.Margin.Bottom
}
