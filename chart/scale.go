// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/base/benchreport/benchseries"
)

// A Domain is a closed interval of data values.
type Domain struct {
	Min, Max float64
}

// An Axis maps a data domain linearly onto a pixel range.
type Axis struct {
	Domain    Domain
	From, To  float64
	data, pix scale.Linear
}

// NewAxis returns an Axis mapping dom onto [from, to].
func NewAxis(dom Domain, from, to float64) *Axis {
	return &Axis{
		Domain: dom,
		From:   from,
		To:     to,
		data:   scale.Linear{Min: dom.Min, Max: dom.Max},
		pix:    scale.Linear{Min: from, Max: to},
	}
}

// Degenerate reports whether the axis domain is a single value.
func (a *Axis) Degenerate() bool {
	return !(a.Domain.Max > a.Domain.Min)
}

// Map returns the pixel position of v. Every value of a degenerate
// domain maps to the middle of the range.
func (a *Axis) Map(v float64) float64 {
	if a.Degenerate() {
		return (a.From + a.To) / 2
	}
	return scale.QQ{Src: &a.data, Dest: &a.pix}.Map(v)
}

// Invert returns the data value at pixel position p.
func (a *Axis) Invert(p float64) float64 {
	if a.Degenerate() || a.From == a.To {
		return a.Domain.Min
	}
	return scale.QQ{Src: &a.pix, Dest: &a.data}.Map(p)
}

// Ticks returns at most count tick values within the domain, in
// ascending order. Ticks are multiples of 1, 2 or 5 times a power of
// ten, using the smallest such step that fits.
func (a *Axis) Ticks(count int) []float64 {
	lo, hi := a.Domain.Min, a.Domain.Max
	switch {
	case count <= 0 || math.IsNaN(lo) || math.IsNaN(hi):
		return nil
	case lo == hi:
		return []float64{lo}
	case hi < lo:
		lo, hi = hi, lo
	}
	t := niceTicker{lo, hi}
	o := scale.TickOptions{Max: count}
	level, ok := o.FindLevel(t, t.guess())
	if !ok {
		return nil
	}
	return t.TicksAtLevel(level).([]float64)
}

// niceTicker is a scale.Ticker over [min, max]. Level 3k places ticks
// every 10^k, level 3k+1 every 2*10^k and level 3k+2 every 5*10^k.
type niceTicker struct {
	min, max float64
}

var tickFactors = [3]float64{1, 2, 5}

func (t niceTicker) guess() int {
	return 3 * int(math.Floor(math.Log10(t.max-t.min)))
}

// step returns the tick spacing of level as factor*10^exp.
func (t niceTicker) step(level int) (factor, exp float64) {
	exp = math.Floor(float64(level) / 3)
	return tickFactors[level-3*int(exp)], exp
}

// tick returns the nth tick of a level, dividing for negative
// exponents so that 0.1 steps land on exact decimals.
func (t niceTicker) tick(n, factor, exp float64) float64 {
	if exp < 0 {
		return n * factor / math.Pow(10, -exp)
	}
	return n * factor * math.Pow(10, exp)
}

func (t niceTicker) span(level int) (first, last float64) {
	factor, exp := t.step(level)
	spacing := factor * math.Pow(10, exp)
	slack := (t.max - t.min) * 1e-10
	first, last = math.Ceil((t.min-slack)/spacing), math.Floor((t.max+slack)/spacing)
	if first == 0 {
		first = 0 // not -0, which would label as "-0"
	}
	return first, last
}

func (t niceTicker) CountTicks(level int) int {
	first, last := t.span(level)
	return int(last - first + 1)
}

func (t niceTicker) TicksAtLevel(level int) interface{} {
	first, last := t.span(level)
	factor, exp := t.step(level)
	ticks := make([]float64, 0, int(last-first+1))
	for n := first; n <= last; n++ {
		ticks = append(ticks, t.tick(n, factor, exp))
	}
	return ticks
}

// XDomain returns the range of block numbers over every point of
// series, whether or not the point has a value for any metric.
func XDomain(series []benchseries.Series) Domain {
	var xs []float64
	for _, s := range series {
		for _, p := range s.Points {
			xs = append(xs, float64(p.BlockNumber))
		}
	}
	if len(xs) == 0 {
		return Domain{}
	}
	min, max := stats.Bounds(xs)
	return Domain{min, max}
}

// YDomain returns [0, max] where max is the largest value of metric
// across series, or [0, 1] if there is no positive value.
func YDomain(series []benchseries.Series, metric string) Domain {
	var ys []float64
	for i := range series {
		for j := range series[i].Points {
			if v := series[i].Value(j, metric); !math.IsNaN(v) && !math.IsInf(v, 0) {
				ys = append(ys, v)
			}
		}
	}
	if len(ys) == 0 {
		return Domain{0, 1}
	}
	_, max := stats.Bounds(ys)
	if !(max > 0) {
		max = 1
	}
	return Domain{0, max}
}
