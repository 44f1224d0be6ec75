// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"net/http"

	"github.com/base/benchreport/benchproc"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/benchunit"
	"github.com/base/benchreport/chart"
	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
)

var errUnknownRun = errors.New("unknown benchmark run")

// A comparison is the series of the runs selected on a comparison
// request.
type comparison struct {
	Catalog      *benchrun.Catalog
	BenchmarkRun string
	Selection    benchproc.Selection
	Resolution   *benchproc.Resolution
	Series       []benchseries.Series
	// Errors are the metric files that could not be fetched.
	Errors []error
}

// resolveComparison resolves the filters of r against the runs of the
// requested benchmark run, one per role, and fetches the metrics of
// the matching runs. A metric file that cannot be fetched leaves its
// series out and is reported in Errors.
func (a *App) resolveComparison(r *http.Request) (*comparison, error) {
	ctx := r.Context()
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	id := r.Form.Get("run")
	if id == "" {
		id = benchrun.LatestAlias
	}
	scope, ok := cat.Scope(id)
	if !ok {
		return nil, errors.Wrap(errUnknownRun, id)
	}

	runs := benchseries.WithRoles(scope)
	sel := selection(r, benchproc.NewSelection(benchseries.DefaultGroupBy))
	res := benchproc.Resolve(runs, sel, nil, benchproc.First)
	reqs := benchseries.Assemble(res.Matched, sel.ByMetric)
	series, errs := a.fetchSeries(ctx, reqs)
	return &comparison{
		Catalog:      cat,
		BenchmarkRun: id,
		Selection:    sel,
		Resolution:   res,
		Series:       series,
		Errors:       errs,
	}, nil
}

// comparisonError answers a failed resolveComparison.
func comparisonError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Cause(err) == errUnknownRun {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	serverError(w, r, err)
}

type compareData struct {
	Nav     []link
	GroupBy []link
	Filters []filterGroup
	Errors  []string
	Charts  []chartData
}

type chartData struct {
	ID     string
	Title  string
	SVG    safehtml.HTML
	SVGURL string
	PNGURL string
}

// compare serves the comparison page: one chart per metric with data,
// with hover frames synchronized across the charts.
func (a *App) compare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := a.resolveComparison(r)
	if err != nil {
		comparisonError(w, r, err)
		return
	}

	width := a.widthArgs(r)
	url := func(s benchproc.Selection) string { return pageURL("/run-comparison", c.BenchmarkRun, s, width...) }
	data := &compareData{
		Nav: navLinks(c.Catalog, c.BenchmarkRun, func(b string) string {
			return pageURL("/run-comparison", b, benchproc.NewSelection(benchseries.DefaultGroupBy), width...)
		}),
		Filters: filterGroups(c.Resolution, c.Selection, benchproc.First, url),
	}
	for _, k := range benchproc.Keys(c.Resolution.Variables) {
		data.GroupBy = append(data.GroupBy, link{
			Label:    benchunit.TitleCase(k),
			URL:      url(c.Selection.GroupBy(k)),
			Selected: k == c.Selection.ByMetric,
		})
	}
	for _, err := range c.Errors {
		data.Errors = append(data.Errors, err.Error())
	}

	grid := chart.NewGrid(a.definitions(), c.Series, a.requestWidth(r))
	defer grid.Close()
	rendered, err := grid.Render(a.Charts)
	if err != nil {
		serverError(w, r, err)
		return
	}
	for _, rc := range rendered {
		data.Charts = append(data.Charts, chartData{
			ID:     rc.ID,
			Title:  rc.Title,
			SVG:    inlineSVG(rc.SVG),
			SVGURL: pageURL("/chart.svg", c.BenchmarkRun, c.Selection, append([]string{"metric", rc.Metric}, width...)...),
			PNGURL: pageURL("/chart.png", c.BenchmarkRun, c.Selection, append([]string{"metric", rc.Metric}, width...)...),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := compareTmpl.Execute(w, data); err != nil {
		serverError(w, r, err)
	}
}

// inlineSVG converts an SVG document produced by chart.Render into
// HTML that can be embedded in a page.
func inlineSVG(doc []byte) safehtml.HTML {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		doc = doc[i:]
	}
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(string(doc))
}

// chartFor returns the series and definition of the chart named by
// the metric parameter of r.
func (a *App) chartFor(w http.ResponseWriter, r *http.Request) (*comparison, chart.Definition, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, chart.Definition{}, false
	}
	metric := r.Form.Get("metric")
	def, ok := chart.Lookup(a.definitions(), metric)
	if !ok {
		http.Error(w, "unknown metric "+metric, http.StatusNotFound)
		return nil, chart.Definition{}, false
	}
	c, err := a.resolveComparison(r)
	if err != nil {
		comparisonError(w, r, err)
		return nil, chart.Definition{}, false
	}
	if !benchseries.HasMetric(c.Series, metric) {
		http.Error(w, "no data for "+metric, http.StatusNotFound)
		return nil, chart.Definition{}, false
	}
	return c, def, true
}

// chartSVG serves one chart as a standalone SVG document.
func (a *App) chartSVG(w http.ResponseWriter, r *http.Request) {
	c, def, ok := a.chartFor(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.New("chart-0", def, c.Series, a.requestWidth(r)).Render(&buf, a.Charts); err != nil {
		serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

// chartPNG serves one chart as a PNG image.
func (a *App) chartPNG(w http.ResponseWriter, r *http.Request) {
	c, def, ok := a.chartFor(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := benchseries.WritePNG(&buf, c.Series, def.Key, PNGOptions(def, a.requestWidth(r))); err != nil {
		serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// PNGOptions returns the options that export def as a PNG image the
// size of its SVG chart in a container width pixels wide.
func PNGOptions(def chart.Definition, width float64) benchseries.PNGOptions {
	d := chart.Dimensions(width)
	return benchseries.PNGOptions{
		Title:  def.Title,
		Unit:   def.Unit,
		Width:  pixels(d.OuterWidth()),
		Height: pixels(d.OuterHeight()),
		DPI:    pngDPI,
	}
}

const pngDPI = 96

// pixels converts a length in pixels at pngDPI to a vg.Length.
func pixels(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / pngDPI
}
