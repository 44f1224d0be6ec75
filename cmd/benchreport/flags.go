// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"strings"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/base/benchreport/storage"
	"github.com/base/benchreport/storage/db"
	_ "github.com/base/benchreport/storage/db/sqlite3"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	levelFlag = "level"

	dirFlag      = "dir"
	urlFlag      = "url"
	tokenFlag    = "token"
	bucketFlag   = "bucket"
	prefixFlag   = "prefix"
	dbFlag       = "db"
	dbDriverFlag = "db-driver"

	addrFlag    = "addr"
	chartsFlag  = "charts"
	cacheFlag   = "cache"
	ttlFlag     = "ttl"
	widthFlag   = "width"
	viewURLFlag = "view-url"

	metricFlag  = "metric"
	filterFlag  = "filter"
	groupByFlag = "group-by"
	runFlag     = "run"
	outFlag     = "out"
	optionsFlag = "options"
	missingFlag = "missing"
)

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func addDBFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   dbFlag,
			Usage:  "data source name of the run database, e.g. a sqlite3 file or user@cloudsql(instance)/db",
			EnvVar: "BENCHREPORT_DB",
		},
		cli.StringFlag{
			Name:   dbDriverFlag,
			Usage:  "database driver: sqlite3 or mysql",
			Value:  "sqlite3",
			EnvVar: "BENCHREPORT_DB_DRIVER",
		})
}

func addTokenFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   tokenFlag,
		Usage:  "OAuth2 bearer token for the report server",
		EnvVar: "BENCHREPORT_TOKEN",
	})
}

// addSourceFlags adds the flags that select where a report is read
// from.
func addSourceFlags(flags ...cli.Flag) []cli.Flag {
	flags = append(flags,
		cli.StringFlag{
			Name:   joinFlagNames(dirFlag, "d"),
			Usage:  "read the report from the parent of a local output directory",
			EnvVar: "BENCHREPORT_DIR",
		},
		cli.StringFlag{
			Name:   urlFlag,
			Usage:  "read the report from a report server",
			EnvVar: "BENCHREPORT_URL",
		},
		cli.StringFlag{
			Name:   bucketFlag,
			Usage:  "read the report from a Cloud Storage bucket",
			EnvVar: "BENCHREPORT_BUCKET",
		},
		cli.StringFlag{
			Name:   prefixFlag,
			Usage:  "object name prefix of the report in the bucket",
			EnvVar: "BENCHREPORT_PREFIX",
		})
	return addTokenFlag(addDBFlags(flags...)...)
}

func openDB(c *cli.Context) (*db.DB, error) {
	dsn := c.String(dbFlag)
	if dsn == "" {
		return nil, errors.New("no database specified")
	}
	d, err := db.OpenSQL(c.String(dbDriverFlag), dsn)
	return d, errors.Wrapf(err, "opening database %s", dsn)
}

// openFiles returns the source of report files named by the flags of
// c, or nil if none is.
func openFiles(ctx context.Context, c *cli.Context) (storage.Source, error) {
	var srcs []storage.Source
	if dir := c.String(dirFlag); dir != "" {
		srcs = append(srcs, storage.DirSource{Dir: dir})
	}
	if u := c.String(urlFlag); u != "" {
		srcs = append(srcs, storage.NewClient(u, c.String(tokenFlag)))
	}
	if bucket := c.String(bucketFlag); bucket != "" {
		b, err := storage.NewBucketSource(ctx, bucket, c.String(prefixFlag))
		if err != nil {
			return nil, errors.Wrapf(err, "opening bucket %s", bucket)
		}
		srcs = append(srcs, b)
	}
	switch len(srcs) {
	case 0:
		return nil, nil
	case 1:
		return srcs[0], nil
	}
	return nil, errors.Errorf("only one of --%s, --%s and --%s may be given", dirFlag, urlFlag, bucketFlag)
}

// openSource returns the report source named by the flags of c. With
// --db, runs come from the database and metric files from the other
// source flags. The returned function releases the source.
func openSource(ctx context.Context, c *cli.Context) (storage.Source, func() error, error) {
	files, err := openFiles(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	if c.String(dbFlag) == "" {
		if files == nil {
			return nil, nil, errors.Errorf("one of --%s, --%s, --%s or --%s is required", dirFlag, urlFlag, bucketFlag, dbFlag)
		}
		return files, func() error { return nil }, nil
	}
	d, err := openDB(c)
	if err != nil {
		return nil, nil, err
	}
	return &db.Source{DB: d, Files: files}, d.Close, nil
}
