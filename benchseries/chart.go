// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"image/color"
	"io"
	"math"

	"github.com/base/benchreport/benchunit"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PNGOptions control WritePNG.
type PNGOptions struct {
	Title string
	Unit  benchunit.Unit

	// Width and Height default to 8 by 4 inches.
	Width, Height vg.Length

	// DPI defaults to 96.
	DPI int
}

// ErrNoData is returned by WritePNG when no series has a value for
// the metric.
var ErrNoData = errors.New("no data for metric")

// WritePNG draws series' values of metric as a line chart and writes it
// to w as a PNG image. Lines break at points without a value.
func WritePNG(w io.Writer, series []Series, metric string, opts PNGOptions) error {
	if !HasMetric(series, metric) {
		return errors.Wrap(ErrNoData, metric)
	}
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 4 * vg.Inch
	}
	if opts.DPI == 0 {
		opts.DPI = 96
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	pl.X.Label.Text = "Block"
	pl.Y.Min = 0
	pl.Y.Tick.Marker = unitTicks{opts.Unit}
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	pl.Add(grid)

	for i := range series {
		clr, err := ParseColor(ColorOf(series, i))
		if err != nil {
			return err
		}
		segs := segments(&series[i], metric)
		for j, seg := range segs {
			l, err := plotter.NewLine(seg)
			if err != nil {
				return errors.Wrapf(err, "series %s", series[i].Name)
			}
			l.LineStyle.Color = clr
			l.LineStyle.Width = vg.Points(2)
			pl.Add(l)
			if j == 0 {
				pl.Legend.Add(series[i].Name, l)
			}
		}
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI), vgimg.UseBackgroundColor(color.White))
	pl.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return errors.Wrap(err, "writing png")
}

// segments splits the points of s into runs of consecutive points
// with a value for metric.
func segments(s *Series, metric string) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	for i, p := range s.Points {
		v := s.Value(i, metric)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(p.BlockNumber), Y: v})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// unitTicks labels the default ticks with values formatted in a unit.
type unitTicks struct {
	unit benchunit.Unit
}

func (u unitTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = benchunit.Format(ticks[i].Value, u.unit)
		}
	}
	return ticks
}
