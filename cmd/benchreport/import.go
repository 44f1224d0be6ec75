// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/base/benchreport/benchrun"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Import returns the import command, which stores manifest files in
// the run database, one upload per file.
func Import() cli.Command {
	return cli.Command{
		Name:      "import",
		Usage:     "store manifests in the run database",
		ArgsUsage: "manifest.json...",
		Flags:     addDBFlags(),
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			if c.NArg() == 0 {
				return errors.New("no manifests to import")
			}
			d, err := openDB(c)
			if err != nil {
				return errors.WithStack(err)
			}
			defer d.Close()

			for _, name := range c.Args() {
				m, err := readManifestFile(name)
				if err != nil {
					return err
				}
				u, err := d.InsertManifest(ctx, m)
				if err != nil {
					return errors.Wrapf(err, "importing %s", name)
				}
				grip.Info(message.Fields{
					"message":  "imported manifest",
					"file":     name,
					"uploadid": u.ID,
					"runs":     len(m.Runs),
				})
			}
			return nil
		},
	}
}

func readManifestFile(name string) (*benchrun.Manifest, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	m, err := benchrun.ReadManifest(f)
	return m, errors.Wrapf(err, "reading %s", name)
}
