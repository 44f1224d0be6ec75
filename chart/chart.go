// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/benchunit"
)

const (
	xTickCount = 10
	yTickCount = 8
	tickSize   = 6

	strokeWidth = 2
	dotRadius   = 4

	legendSwatch  = 10
	legendTextX   = 15
	legendOffset  = 25
	legendSpacing = 10
	legendFont    = 10
)

// A Chart is one metric of a set of series drawn as a line chart.
type Chart struct {
	ID string
	Definition
	Series []benchseries.Series
	Dims   Dims

	// XDomain, if non-nil, overrides the block range computed from
	// the series.
	XDomain *Domain

	mu      sync.Mutex
	frames  []Frame
	current *Frame
}

// New returns a chart of def over series, sized for a container
// width pixels wide.
func New(id string, def Definition, series []benchseries.Series, width float64) *Chart {
	return &Chart{ID: id, Definition: def, Series: series, Dims: Dimensions(width)}
}

// Axes returns the x and y axes of c.
func (c *Chart) Axes() (x, y *Axis) {
	xd := XDomain(c.Series)
	if c.XDomain != nil {
		xd = *c.XDomain
	}
	x = NewAxis(xd, 0, c.Dims.Width)
	y = NewAxis(YDomain(c.Series, c.Key), c.Dims.Height, 0)
	return x, y
}

// Render writes c as a standalone SVG document to w, including any
// hover frames recorded so far. The static part of the chart is
// taken from cache when present there; cache may be nil.
func (c *Chart) Render(w io.Writer, cache *Cache) error {
	key := c.Hash()
	body, ok := cache.Get(key)
	if !ok {
		var buf bytes.Buffer
		c.renderBody(svg.New(&buf))
		body = buf.Bytes()
		cache.Add(key, body)
	}

	d := c.Dims
	canvas := svg.New(w)
	canvas.Start(int(math.Ceil(d.OuterWidth())), int(math.Ceil(d.OuterHeight())),
		fmt.Sprintf(`id="%s"`, escape(c.ID)), `class="chart"`, fmt.Sprintf(`data-metric="%s"`, escape(c.Key)))
	canvas.Gtransform(translate(d.Margin.Left, d.Margin.Top))
	if _, err := w.Write(body); err != nil {
		return err
	}
	c.renderFrames(canvas)
	canvas.Rect(0, 0, int(math.Ceil(d.Width)), int(math.Ceil(d.Height)), `class="overlay"`, "fill:none;pointer-events:all")
	canvas.Gend()
	canvas.End()
	return nil
}

// renderBody draws everything that does not depend on the pointer.
func (c *Chart) renderBody(canvas *svg.SVG) {
	d := c.Dims
	x, y := c.Axes()

	if c.Title != "" {
		canvas.Text(0, 0, c.Title, transformAttr(translate(d.Width/2, -topMargin-20)),
			"text-anchor:middle;font-size:16px;font-weight:bold")
	}
	if c.Description != "" {
		canvas.Text(0, 0, c.Description, transformAttr(translate(d.Width/2, -topMargin)),
			"text-anchor:middle;font-size:12px;fill:#666")
	}

	xticks := x.Ticks(xTickCount)
	yticks := y.Ticks(yTickCount)

	// Grid lines.
	canvas.Group(`class="grid"`, "stroke:currentColor;stroke-dasharray:3,3;stroke-opacity:0.2")
	for _, t := range xticks {
		px := x.Map(t)
		canvas.Path(fmt.Sprintf("M%s,0V%s", num(px), num(d.Height)))
	}
	for _, t := range yticks {
		py := y.Map(t)
		canvas.Path(fmt.Sprintf("M0,%sH%s", num(py), num(d.Width)))
	}
	canvas.Gend()

	// Bottom axis.
	canvas.Group(`class="axis x"`, transformAttr(translate(0, d.Height)), `font-size="10"`, `font-family="sans-serif"`)
	canvas.Path(fmt.Sprintf("M0,%dV0H%sV%d", tickSize, num(d.Width), tickSize), "fill:none;stroke:currentColor")
	for _, t := range xticks {
		px := x.Map(t)
		canvas.Path(fmt.Sprintf("M%s,0V%d", num(px), tickSize), "stroke:currentColor")
		canvas.Text(0, 0, benchunit.Format(t, benchunit.Count),
			transformAttr(translate(px, tickSize+3)+" rotate(-45)"), `dx="-.8em"`, `dy=".15em"`,
			"text-anchor:end;fill:currentColor")
	}
	canvas.Gend()

	// Left axis.
	canvas.Group(`class="axis y"`, `font-size="10"`, `font-family="sans-serif"`)
	canvas.Path(fmt.Sprintf("M-%d,%sH0V0H-%d", tickSize, num(d.Height), tickSize), "fill:none;stroke:currentColor")
	for _, t := range yticks {
		py := y.Map(t)
		canvas.Path(fmt.Sprintf("M-%d,%sH0", tickSize, num(py)), "stroke:currentColor")
		canvas.Text(0, 0, benchunit.Format(t, c.Unit),
			transformAttr(translate(-tickSize-3, py)), `dy=".32em"`,
			"text-anchor:end;fill:currentColor")
	}
	canvas.Gend()

	c.renderLegend(canvas)

	for i := range c.Series {
		color := benchseries.ColorOf(c.Series, i)
		if p := linePath(&c.Series[i], c.Key, x, y); p != "" {
			canvas.Path(p, fmt.Sprintf(`class="line line-%d"`, i),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", color, strokeWidth))
		}
		canvas.Group(fmt.Sprintf(`class="dots dot-%d"`, i), fmt.Sprintf("fill:%s;opacity:0", color))
		for j, p := range c.Series[i].Points {
			v := c.Series[i].Value(j, c.Key)
			if !present(v) {
				continue
			}
			canvas.Circle(round(x.Map(float64(p.BlockNumber))), round(y.Map(v)), dotRadius)
		}
		canvas.Gend()
	}
}

// LegendLayout returns the x offset of each legend entry. Entries are
// as wide as their swatch and measured label and are centered as a
// group below the plotting area.
func (c *Chart) LegendLayout() []float64 {
	widths := make([]float64, len(c.Series))
	total := 0.0
	for i, s := range c.Series {
		widths[i] = legendTextX + TextWidth(s.Name, legendFont)
		total += widths[i]
	}
	total += math.Max(0, float64(len(c.Series)-1)) * legendSpacing

	xs := make([]float64, len(c.Series))
	cur := math.Max(0, (c.Dims.Width-total)/2)
	for i := range xs {
		xs[i] = cur
		cur += widths[i] + legendSpacing
	}
	return xs
}

func (c *Chart) renderLegend(canvas *svg.SVG) {
	canvas.Group(`class="legend"`, `font-family="sans-serif"`, fmt.Sprintf(`font-size="%d"`, legendFont), `text-anchor="start"`)
	for i, lx := range c.LegendLayout() {
		canvas.Gtransform(translate(lx, c.Dims.Height+legendOffset))
		canvas.Rect(0, 0, legendSwatch, legendSwatch, "fill:"+benchseries.ColorOf(c.Series, i))
		canvas.Text(legendTextX, 5, c.Series[i].Name, `dy="0.35em"`)
		canvas.Gend()
	}
	canvas.Gend()
}

// linePath returns the SVG path of s's values of metric. Points
// without a value break the line.
func linePath(s *benchseries.Series, metric string, x, y *Axis) string {
	var b strings.Builder
	pen := false
	for i, p := range s.Points {
		v := s.Value(i, metric)
		if !present(v) {
			pen = false
			continue
		}
		if pen {
			b.WriteByte('L')
		} else {
			b.WriteByte('M')
			pen = true
		}
		b.WriteString(num(x.Map(float64(p.BlockNumber))))
		b.WriteByte(',')
		b.WriteString(num(y.Map(v)))
	}
	return b.String()
}

func present(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func round(v float64) int {
	return int(math.Round(v))
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", num(x), num(y))
}

func transformAttr(t string) string {
	return fmt.Sprintf(`transform="%s"`, t)
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
