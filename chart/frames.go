// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/benchunit"
	"github.com/base/benchreport/hover"
	"github.com/base/benchreport/tooltip"
)

// Tooltip geometry, in pixels.
const (
	tooltipFont    = 12
	tooltipPadding = 8
	tooltipHeight  = 20
	tooltipOffset  = 10
)

// A Frame is what a chart shows while the pointer is at one block: a
// cursor line and one tooltip per series with a value there.
type Frame struct {
	Block uint64
	X     float64
	Boxes []tooltip.Box
}

// Blocks returns the sorted, distinct block numbers of c's series.
func (c *Chart) Blocks() []uint64 {
	return blocks(c.Series)
}

// FrameAt returns the frame for the pointer at pixel mouseX, snapped
// to the nearest block. It reports false if c has no points.
func (c *Chart) FrameAt(mouseX float64) (Frame, bool) {
	bs := c.Blocks()
	if len(bs) == 0 {
		return Frame{}, false
	}
	x, y := c.Axes()
	block := nearest(bs, x.Invert(mouseX))
	cx := x.Map(float64(block))

	var boxes []tooltip.Box
	for i := range c.Series {
		s := &c.Series[i]
		j := sort.Search(len(s.Points), func(j int) bool { return s.Points[j].BlockNumber >= block })
		if j == len(s.Points) || s.Points[j].BlockNumber != block {
			continue
		}
		v := s.Value(j, c.Key)
		if !present(v) {
			continue
		}
		text := s.Name + ": " + benchunit.Format(v, c.Unit)
		w := TextWidth(text, tooltipFont) + 2*tooltipPadding
		bx := cx + tooltipOffset
		if bx+w > c.Dims.Width {
			bx = cx - tooltipOffset - w
		}
		by := y.Map(v)
		boxes = append(boxes, tooltip.Box{
			ID:        i,
			X:         bx,
			Y:         by,
			Width:     w,
			Height:    tooltipHeight,
			OriginalY: by,
			Value:     v,
			Label:     s.Name,
			Text:      text,
			Color:     benchseries.ColorOf(c.Series, i),
		})
	}
	return Frame{Block: block, X: cx, Boxes: tooltip.Layout(boxes, c.Dims.Height)}, true
}

// Subscribe makes c follow hover events on h. Each event sets c's
// current frame and records it for rendering; the end of a hover
// clears the current frame.
func (c *Chart) Subscribe(h *hover.Hub) (cancel func()) {
	return h.Subscribe(c.ID, c.hover, c.endHover)
}

func (c *Chart) hover(ev hover.Event) {
	f, ok := c.FrameAt(ev.MouseX)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.current = nil
		return
	}
	c.current = &f
	for _, g := range c.frames {
		if g.Block == f.Block {
			return
		}
	}
	c.frames = append(c.frames, f)
}

func (c *Chart) endHover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// Current returns the frame c is showing, if any.
func (c *Chart) Current() (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Frame{}, false
	}
	return *c.current, true
}

// Frames returns the frames recorded so far, in order of first
// appearance.
func (c *Chart) Frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Frame(nil), c.frames...)
}

// renderFrames draws each recorded frame as a group that is hidden
// unless it is the current frame.
func (c *Chart) renderFrames(canvas *svg.SVG) {
	cur, hasCur := c.Current()
	for _, f := range c.Frames() {
		vis := "hidden"
		if hasCur && cur.Block == f.Block {
			vis = "visible"
		}
		canvas.Group(`class="hover-frame"`, fmt.Sprintf(`data-block="%d"`, f.Block),
			fmt.Sprintf(`data-x="%s"`, num(f.X)), fmt.Sprintf(`visibility="%s"`, vis), "pointer-events:none")
		canvas.Path(fmt.Sprintf("M%s,0V%s", num(f.X), num(c.Dims.Height)), "stroke:#999;stroke-width:1;stroke-dasharray:3,3")
		for _, b := range f.Boxes {
			canvas.Gtransform(translate(b.X, b.Y))
			canvas.Rect(0, 0, round(b.Width), round(b.Height), "fill:white;fill-opacity:0.9;stroke:"+b.Color)
			canvas.Text(tooltipPadding, 14, b.Text, fmt.Sprintf("font-size:%dpx;font-family:sans-serif;fill:%s", tooltipFont, b.Color))
			canvas.Gend()
		}
		canvas.Gend()
	}
}

// nearest returns the element of the sorted slice bs closest to v.
// Ties go to the smaller block.
func nearest(bs []uint64, v float64) uint64 {
	i := sort.Search(len(bs), func(i int) bool { return float64(bs[i]) >= v })
	if i == 0 {
		return bs[0]
	}
	if i == len(bs) {
		return bs[len(bs)-1]
	}
	if v-float64(bs[i-1]) <= float64(bs[i])-v {
		return bs[i-1]
	}
	return bs[i]
}
