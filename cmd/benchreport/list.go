// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/base/benchreport/benchproc"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// List returns the list command, which prints the runs of a benchmark
// run that pass a set of filters. Variables that are not filtered
// match any value.
func List() cli.Command {
	return cli.Command{
		Name:  "list",
		Usage: "list the runs of a benchmark run that match filters",
		Flags: addSourceFlags(
			cli.StringSliceFlag{
				Name:  filterFlag,
				Usage: "pin a configuration variable, as `key=value`; may be repeated",
			},
			cli.StringFlag{
				Name:  runFlag,
				Usage: "benchmark run to list",
				Value: benchrun.LatestAlias,
			},
			cli.BoolFlag{
				Name:  optionsFlag,
				Usage: "also print the values each variable may still take",
			}),
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			sel, err := parseFilters(benchrun.RoleKey, c.StringSlice(filterFlag))
			if err != nil {
				return err
			}

			src, closeSource, err := openSource(ctx, c)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeSource()

			m, err := src.Manifest(ctx)
			if err != nil {
				return errors.Wrap(err, "loading manifest")
			}
			scope, ok := benchrun.NewCatalog(m.Runs).Scope(c.String(runFlag))
			if !ok {
				return errors.Errorf("unknown benchmark run %q", c.String(runFlag))
			}

			res := benchproc.Resolve(scope, sel, nil, benchproc.Any)
			if c.Bool(missingFlag) {
				l, ok := src.(storage.DirLister)
				if !ok {
					return errors.Errorf("--%s needs --%s or --%s", missingFlag, dirFlag, bucketFlag)
				}
				missing, err := storage.MissingOutputDirs(ctx, l, &benchrun.Manifest{Runs: res.Matched})
				if err != nil {
					return errors.WithStack(err)
				}
				for _, dir := range missing {
					fmt.Fprintln(c.App.Writer, dir)
				}
				return nil
			}
			if err := writeRuns(c.App.Writer, res); err != nil {
				return errors.WithStack(err)
			}
			if c.Bool(optionsFlag) {
				return errors.WithStack(writeOptions(c.App.Writer, res))
			}
			return nil
		},
	}
}

// writeRuns prints one line per matched run with its status and the
// values of the varying configuration keys.
func writeRuns(w io.Writer, res *benchproc.Resolution) error {
	keys := benchproc.Keys(res.Variables)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i := range res.Matched {
		r := &res.Matched[i]
		config := make([]string, 0, len(keys))
		for _, k := range keys {
			if v, ok := r.Config(k); ok {
				config = append(config, k+"="+v)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, benchrun.StatusOf(r), r.TestName, strings.Join(config, " "))
	}
	return tw.Flush()
}

func writeOptions(w io.Writer, res *benchproc.Resolution) error {
	for _, k := range benchproc.Keys(res.Options) {
		values := make([]string, len(res.Options[k]))
		for i, v := range res.Options[k] {
			values[i] = benchrun.ValueString(v)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, strings.Join(values, ", ")); err != nil {
			return err
		}
	}
	return nil
}
