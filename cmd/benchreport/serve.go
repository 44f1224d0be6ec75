// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http"

	analysis "github.com/base/benchreport/analysis/app"
	"github.com/base/benchreport/chart"
	storageapp "github.com/base/benchreport/storage/app"
	"github.com/base/benchreport/storage/db"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// listenAndServe serves handler on addr. Tests replace it.
var listenAndServe = http.ListenAndServe

// Serve returns the serve command, which runs the report viewer. With
// --db it also serves the upload and search API of the database.
func Serve() cli.Command {
	return cli.Command{
		Name:  "serve",
		Usage: "run the report viewer",
		Flags: addSourceFlags(
			cli.StringFlag{
				Name:   addrFlag,
				Usage:  "serve HTTP on `address`",
				Value:  "localhost:8080",
				EnvVar: "BENCHREPORT_ADDR",
			},
			cli.StringFlag{
				Name:   chartsFlag,
				Usage:  "YAML file of chart definitions",
				EnvVar: "BENCHREPORT_CHARTS",
			},
			cli.IntFlag{
				Name:   cacheFlag,
				Usage:  "number of rendered charts to cache",
				Value:  256,
				EnvVar: "BENCHREPORT_CHART_CACHE",
			},
			cli.DurationFlag{
				Name:   ttlFlag,
				Usage:  "how long a fetched manifest is reused; 0 keeps it forever",
				EnvVar: "BENCHREPORT_MANIFEST_TTL",
			},
			cli.Float64Flag{
				Name:   widthFlag,
				Usage:  "chart container width in pixels",
				Value:  analysis.DefaultWidth,
				EnvVar: "BENCHREPORT_CHART_WIDTH",
			},
			cli.StringFlag{
				Name:   viewURLFlag,
				Usage:  "prefix of the view URL returned from /upload",
				EnvVar: "BENCHREPORT_VIEW_URL",
			}),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			src, closeSource, err := openSource(ctx, c)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeSource()

			viewer := &analysis.App{
				Source:      src,
				Charts:      chart.NewCache(c.Int(cacheFlag)),
				Width:       c.Float64(widthFlag),
				ManifestTTL: c.Duration(ttlFlag),
			}
			if path := c.String(chartsFlag); path != "" {
				defs, err := chart.LoadDefinitions(path)
				if err != nil {
					return errors.WithStack(err)
				}
				viewer.Definitions = defs
			}

			mux := http.NewServeMux()
			viewer.RegisterOnMux(mux)
			if ds, ok := src.(*db.Source); ok {
				store := &storageapp.App{DB: ds.DB, Files: ds.Files, ViewURLBase: c.String(viewURLFlag)}
				store.RegisterOnMux(mux)
			}

			addr := c.String(addrFlag)
			grip.Noticef("starting report viewer on %s", addr)
			return errors.Wrap(listenAndServe(addr, mux), "serving")
		},
	}
}
