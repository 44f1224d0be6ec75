// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tooltip positions hover tooltips so that they do not overlap
// each other and, where possible, stay inside the chart.
package tooltip

import "sort"

const (
	// MinGap is the minimum vertical space between two laid out boxes.
	MinGap = 5

	// FlipOffset is the distance kept between a box flipped above its
	// anchor and the anchor itself.
	FlipOffset = 10
)

// A Box is one candidate tooltip, anchored to a data point.
type Box struct {
	// ID identifies the series the box belongs to.
	ID int

	// X and Y are the display position of the box's top-left
	// corner. Layout only changes Y.
	X, Y float64

	Width, Height float64

	// OriginalY is the pixel y of the anchoring data point.
	OriginalY float64

	Value float64
	Label string
	Text  string
	Color string
}

// Bottom returns the y coordinate of the box's lower edge.
func (b Box) Bottom() float64 {
	return b.Y + b.Height
}

// Layout returns a copy of boxes, ordered by OriginalY, with Y adjusted
// so that boxes stack downwards at least MinGap apart. Boxes whose
// bottom still exceeds chartHeight are moved above their anchor when
// there is room for them and no box placed above the anchor would be
// overlapped.
//
// Layout does not modify boxes.
func Layout(boxes []Box, chartHeight float64) []Box {
	if len(boxes) == 0 {
		return nil
	}
	out := make([]Box, len(boxes))
	copy(out, boxes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OriginalY < out[j].OriginalY
	})

	for i := 1; i < len(out); i++ {
		prev, cur := &out[i-1], &out[i]
		if prev.Bottom()+MinGap > cur.Y {
			cur.Y = prev.Bottom() + MinGap
		}
	}

	for i := range out {
		b := &out[i]
		if b.Bottom() <= chartHeight {
			continue
		}
		above := b.OriginalY - b.Height - FlipOffset
		if above <= 0 {
			continue
		}
		if canFlip(out[:i], b.OriginalY, above) {
			b.Y = above
		}
	}
	return out
}

// canFlip reports whether a box can move to y = above without running
// into any of placed that sits above the anchor at anchorY.
func canFlip(placed []Box, anchorY, above float64) bool {
	for _, p := range placed {
		if p.Y < anchorY && p.Bottom()+MinGap > above {
			return false
		}
	}
	return true
}
