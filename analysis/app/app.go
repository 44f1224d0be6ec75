// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the report viewer: the run index, the run
// comparison with its chart grid, and single-chart SVG and PNG
// exports. Combine an App with a storage.Source to get an HTTP
// server.
package app

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/base/benchreport/benchproc"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/chart"
	"github.com/base/benchreport/storage"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// App serves the viewer. Construct it with a literal holding at least
// Source and call RegisterOnMux.
type App struct {
	// Source provides the manifest and metric files.
	Source storage.Source

	// Charts caches rendered chart bodies. If nil, charts are
	// rendered on every request.
	Charts *chart.Cache

	// Definitions are the metrics charted on the comparison page,
	// in order. If nil, chart.DefaultDefinitions is used.
	Definitions []chart.Definition

	// Width is the width in pixels of the chart container used when
	// a request does not report one. If zero, DefaultWidth is used.
	Width float64

	// ManifestTTL is how long a fetched manifest is reused. If
	// zero, the manifest is fetched once and kept.
	ManifestTTL time.Duration

	once     sync.Once
	metrics  *storage.MetricCache
	requests *benchseries.Propagator

	fetchMu sync.Mutex
	fetch   *requestFetch

	mu       sync.Mutex
	catalog  *benchrun.Catalog
	loadedAt time.Time
}

// DefaultWidth is the chart container width used when App.Width is
// zero.
const DefaultWidth = 1000

// MaxWidth bounds the container width a client may report.
const MaxWidth = 4000

// WidthParam is the query parameter carrying the client's chart
// container width in pixels.
const WidthParam = "width"

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/run-comparison", a.compare)
	mux.HandleFunc("/chart.svg", a.chartSVG)
	mux.HandleFunc("/chart.png", a.chartPNG)
	mux.HandleFunc("/", a.index)
}

func (a *App) setup() {
	a.metrics = storage.NewMetricCache(a.Source)
	a.requests = benchseries.NewPropagator(func(reqs []benchseries.Request) {
		a.fetchMu.Lock()
		a.fetch = &requestFetch{reqs: reqs}
		a.fetchMu.Unlock()
	})
}

// metricCache returns the cache of metric files of a.Source.
func (a *App) metricCache() *storage.MetricCache {
	a.once.Do(a.setup)
	return a.metrics
}

// propagator returns the propagator of assembled request lists.
func (a *App) propagator() *benchseries.Propagator {
	a.once.Do(a.setup)
	return a.requests
}

func (a *App) definitions() []chart.Definition {
	if a.Definitions != nil {
		return a.Definitions
	}
	return chart.DefaultDefinitions
}

func (a *App) width() float64 {
	if a.Width > 0 {
		return a.Width
	}
	return DefaultWidth
}

// requestWidth returns the container width reported by r, at most
// MaxWidth, or a.width() if r reports none. Narrow widths are
// clamped by chart.Dimensions.
func (a *App) requestWidth(r *http.Request) float64 {
	s := r.Form.Get(WidthParam)
	if s == "" {
		return a.width()
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || w <= 0 {
		grip.Debug(message.Fields{
			"message": "ignoring malformed container width",
			"width":   s,
			"path":    r.URL.Path,
		})
		return a.width()
	}
	return math.Min(w, MaxWidth)
}

// widthArgs returns the pageURL arguments that carry the container
// width reported by r on to linked pages.
func (a *App) widthArgs(r *http.Request) []string {
	if r.Form.Get(WidthParam) == "" {
		return nil
	}
	return []string{WidthParam, strconv.FormatFloat(a.requestWidth(r), 'f', -1, 64)}
}

// loadCatalog returns the catalog of the current manifest, fetching it
// if it is missing or older than a.ManifestTTL. A failed refresh
// keeps serving the previous catalog.
func (a *App) loadCatalog(ctx context.Context) (*benchrun.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.catalog != nil && (a.ManifestTTL == 0 || time.Since(a.loadedAt) < a.ManifestTTL) {
		return a.catalog, nil
	}
	m, err := a.Source.Manifest(ctx)
	if err != nil {
		if a.catalog != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message": "refreshing manifest failed, serving previous catalog",
			}))
			return a.catalog, nil
		}
		return nil, errors.Wrap(err, "loading manifest")
	}
	a.catalog = benchrun.NewCatalog(m.Runs)
	a.loadedAt = time.Now()
	return a.catalog, nil
}

// selection decodes the filters parameter of r. A value that does not
// decode is logged and def is used instead.
func selection(r *http.Request, def benchproc.Selection) benchproc.Selection {
	sel, err := benchproc.DecodeSelection(r.Form.Get(benchproc.SelectionParam), def)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "ignoring malformed filter selection",
			"path":    r.URL.Path,
		}))
		return def
	}
	return sel
}

// pageURL returns the URL of path for a benchmark run and selection.
func pageURL(path, benchmarkRun string, sel benchproc.Selection, extra ...string) string {
	v := url.Values{}
	if benchmarkRun != "" && path != "/"+benchmarkRun {
		v.Set("run", benchmarkRun)
	}
	v.Set(benchproc.SelectionParam, benchproc.EncodeSelection(sel))
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return path + "?" + v.Encode()
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	grip.Error(message.WrapError(err, message.Fields{
		"message": "request failed",
		"path":    r.URL.Path,
	}))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
