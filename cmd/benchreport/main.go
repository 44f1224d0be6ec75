// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchreport serves, stores and renders benchmark reports.
//
// Usage:
//
//	benchreport [--level level] serve [--dir dir | --url url | --bucket name] [--db dsn] [--addr address]
//	benchreport import --db dsn manifest.json...
//	benchreport upload --url url [--token token] manifest.json...
//	benchreport render [source flags] --metric key [--filter key=value...] [--out file]
//	benchreport list [source flags] [--filter key=value...] [--options | --missing]
//
// A report is read from the runner's output directory: a local
// directory, a report server, or a Cloud Storage bucket holding
// output/test_metadata.json and the per-run metric files.
package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := buildApp()
	err := app.Run(os.Args)
	grip.EmergencyFatal(err)
}

func buildApp() *cli.App {
	app := cli.NewApp()

	app.Name = "benchreport"
	app.Usage = "view and store benchmark reports"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		Serve(),
		Import(),
		Upload(),
		Render(),
		List(),
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   levelFlag,
			Value:  "info",
			Usage:  "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
			EnvVar: "BENCHREPORT_LOG_LEVEL",
		},
	}

	app.Before = func(c *cli.Context) error {
		return errors.WithStack(loggingSetup(app.Name, c.String(levelFlag)))
	}

	return app
}

// logging setup is separate to make it unit testable
func loggingSetup(name, logLevel string) error {
	sender := grip.GetSender()
	sender.SetName(name)

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
