// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"

	analysis "github.com/base/benchreport/analysis/app"
	"github.com/base/benchreport/benchproc"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/benchseries"
	"github.com/base/benchreport/chart"
	"github.com/base/benchreport/storage"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Render returns the render command, which draws one metric of the
// runs selected by a set of filters, as on the comparison page.
func Render() cli.Command {
	return cli.Command{
		Name:  "render",
		Usage: "render one chart of a comparison to a PNG or SVG file",
		Flags: addSourceFlags(
			cli.StringFlag{
				Name:  metricFlag,
				Usage: "metric `key` to chart, e.g. latency/get_payload",
			},
			cli.StringSliceFlag{
				Name:  filterFlag,
				Usage: "pin a configuration variable, as `key=value`; may be repeated",
			},
			cli.StringFlag{
				Name:  groupByFlag,
				Usage: "configuration key that names the series",
				Value: benchseries.DefaultGroupBy,
			},
			cli.StringFlag{
				Name:  runFlag,
				Usage: "benchmark run to chart",
				Value: benchrun.LatestAlias,
			},
			cli.StringFlag{
				Name:  chartsFlag,
				Usage: "YAML file of chart definitions",
			},
			cli.Float64Flag{
				Name:  widthFlag,
				Usage: "chart container width in pixels",
				Value: analysis.DefaultWidth,
			},
			cli.StringFlag{
				Name:  joinFlagNames(outFlag, "o"),
				Usage: "output file; the extension selects .png or .svg",
				Value: "chart.png",
			}),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			defs := chart.DefaultDefinitions
			if path := c.String(chartsFlag); path != "" {
				var err error
				if defs, err = chart.LoadDefinitions(path); err != nil {
					return errors.WithStack(err)
				}
			}
			def, ok := chart.Lookup(defs, c.String(metricFlag))
			if !ok {
				return errors.Errorf("unknown metric %q", c.String(metricFlag))
			}
			sel, err := parseFilters(c.String(groupByFlag), c.StringSlice(filterFlag))
			if err != nil {
				return err
			}

			src, closeSource, err := openSource(ctx, c)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeSource()

			series, err := selectSeries(ctx, src, c.String(runFlag), sel)
			if err != nil {
				return err
			}

			out := c.String(outFlag)
			var buf bytes.Buffer
			if strings.EqualFold(filepath.Ext(out), ".svg") {
				if !benchseries.HasMetric(series, def.Key) {
					return errors.Wrap(benchseries.ErrNoData, def.Key)
				}
				err = chart.New("chart-0", def, series, c.Float64(widthFlag)).Render(&buf, nil)
			} else {
				err = benchseries.WritePNG(&buf, series, def.Key, analysis.PNGOptions(def, c.Float64(widthFlag)))
			}
			if err != nil {
				return errors.Wrapf(err, "rendering %s", def.Key)
			}
			return errors.WithStack(ioutil.WriteFile(out, buf.Bytes(), 0666))
		},
	}
}

// parseFilters builds a selection from key=value flags.
func parseFilters(groupBy string, filters []string) (benchproc.Selection, error) {
	sel := benchproc.NewSelection(groupBy)
	for _, f := range filters {
		i := strings.Index(f, "=")
		if i <= 0 {
			return sel, errors.Errorf("filter %q is not of the form key=value", f)
		}
		sel = sel.With(f[:i], f[i+1:])
	}
	return sel, nil
}

// selectSeries resolves sel against the runs of one benchmark run and
// fetches their metrics. Runs whose metrics cannot be fetched are
// left out.
func selectSeries(ctx context.Context, src storage.Source, benchmarkRun string, sel benchproc.Selection) ([]benchseries.Series, error) {
	m, err := src.Manifest(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading manifest")
	}
	scope, ok := benchrun.NewCatalog(m.Runs).Scope(benchmarkRun)
	if !ok {
		return nil, errors.Errorf("unknown benchmark run %q", benchmarkRun)
	}
	res := benchproc.Resolve(benchseries.WithRoles(scope), sel, nil, benchproc.First)
	reqs := benchseries.Assemble(res.Matched, sel.ByMetric)
	// FetchAll logs the keys it could not fetch.
	points, _ := storage.NewMetricCache(src).FetchAll(ctx, storage.Keys(reqs))
	return benchseries.Build(reqs, points), nil
}
