// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"strings"
	"testing"

	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/hover"
	"github.com/base/benchreport/tooltip"
)

func TestNearest(t *testing.T) {
	bs := []uint64{10, 20, 40}
	for _, test := range []struct {
		v    float64
		want uint64
	}{
		{-5, 10}, {10, 10}, {14, 10}, {15, 10}, {16, 20}, {29, 20}, {31, 40}, {100, 40},
	} {
		if got := nearest(bs, test.v); got != test.want {
			t.Errorf("nearest(%v) = %d, want %d", test.v, got, test.want)
		}
	}
}

func TestFrameAt(t *testing.T) {
	ss := []benchseries.Series{series("a", 10, 20, 30), series("b", 10, math.NaN(), 30)}
	c := New("c", gasDef, ss, 1000)

	f, ok := c.FrameAt(440)
	if !ok {
		t.Fatal("no frame")
	}
	if f.Block != 2 || f.X != 450 {
		t.Errorf("frame at block %d x %v, want block 2 x 450", f.Block, f.X)
	}
	if len(f.Boxes) != 1 || f.Boxes[0].Label != "a" {
		t.Fatalf("boxes = %+v, want one box for series a", f.Boxes)
	}
	if b := f.Boxes[0]; b.Text != "a: 20.0 gas" || b.X != f.X+tooltipOffset {
		t.Errorf("box = %+v", b)
	}

	f, _ = c.FrameAt(-50)
	if f.Block != 1 || len(f.Boxes) != 2 {
		t.Fatalf("frame at left edge = %+v", f)
	}
	a, b := f.Boxes[0], f.Boxes[1]
	if a.Y > b.Y {
		a, b = b, a
	}
	if a.Bottom()+tooltip.MinGap > b.Y {
		t.Errorf("tooltips overlap: %+v %+v", a, b)
	}

	f, _ = c.FrameAt(c.Dims.Width)
	if f.Block != 3 {
		t.Fatalf("frame at right edge has block %d", f.Block)
	}
	for _, b := range f.Boxes {
		if b.X+b.Width > f.X {
			t.Errorf("box %+v not flipped left of cursor %v", b, f.X)
		}
	}

	empty := New("e", gasDef, nil, 1000)
	if _, ok := empty.FrameAt(10); ok {
		t.Errorf("chart without points produced a frame")
	}
}

func TestGrid(t *testing.T) {
	defs := []Definition{
		gasDef,
		{Key: "missing", Title: "Missing"},
		{Key: "other", Title: "Other", Unit: "count"},
	}
	ss := []benchseries.Series{series("a", 10, 20, 30), series("b", 15, 25)}
	g := NewGrid(defs, ss, 1000)
	defer g.Close()

	if len(g.Charts) != 2 {
		t.Fatalf("got %d charts, want 2", len(g.Charts))
	}
	if g.Charts[1].Key != "other" {
		t.Errorf("second chart is %s, want other", g.Charts[1].Key)
	}

	// A hover on one chart moves every chart.
	g.Hub.Hover(hover.Event{ChartID: g.Charts[1].ID, MouseX: 450})
	for _, c := range g.Charts {
		f, ok := c.Current()
		if !ok || f.Block != 2 {
			t.Errorf("chart %s current = %+v, %v, want block 2", c.ID, f, ok)
		}
	}
	g.Hub.End()
	for _, c := range g.Charts {
		if _, ok := c.Current(); ok {
			t.Errorf("chart %s still has a frame after hover end", c.ID)
		}
	}

	out, err := g.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range out {
		if n := strings.Count(string(r.SVG), `class="hover-frame"`); n != 3 {
			t.Errorf("chart %s has %d frames, want 3", r.ID, n)
		}
		if strings.Contains(string(r.SVG), `visibility="visible"`) {
			t.Errorf("chart %s shows a frame after precompute", r.ID)
		}
		if err := wellFormed(r.SVG); err != nil {
			t.Errorf("chart %s: %v", r.ID, err)
		}
	}
}

func TestGridClose(t *testing.T) {
	g := NewGrid([]Definition{gasDef}, []benchseries.Series{series("a", 1, 2)}, 800)
	g.Close()
	if n := g.Hub.Len(); n != 0 {
		t.Errorf("hub has %d subscribers after Close", n)
	}
	g.Hub.Hover(hover.Event{MouseX: 0})
	if _, ok := g.Charts[0].Current(); ok {
		t.Errorf("closed chart reacted to hover")
	}
}
