// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/base/benchreport/storage"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Upload returns the upload command, which sends manifest files to a
// report server and prints the URL where each can be viewed.
func Upload() cli.Command {
	return cli.Command{
		Name:      "upload",
		Usage:     "upload manifests to a report server",
		ArgsUsage: "manifest.json...",
		Flags: addTokenFlag(cli.StringFlag{
			Name:   urlFlag,
			Usage:  "upload to the report server at `url`",
			EnvVar: "BENCHREPORT_URL",
		}),
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			if c.NArg() == 0 {
				return errors.New("no files to upload")
			}
			server := c.String(urlFlag)
			if server == "" {
				return errors.Errorf("--%s is required", urlFlag)
			}
			client := storage.NewClient(server, c.String(tokenFlag))

			for _, name := range c.Args() {
				m, err := readManifestFile(name)
				if err != nil {
					return err
				}
				start := time.Now()
				status, err := client.Upload(ctx, filepath.Base(name), m)
				if err != nil {
					return errors.Wrapf(err, "uploading %s", name)
				}
				grip.Debug(message.Fields{
					"message":  "uploaded manifest",
					"file":     name,
					"uploadid": status.UploadID,
					"runs":     len(status.RunIDs),
					"secs":     time.Since(start).Seconds(),
				})
				if status.ViewURL != "" {
					fmt.Fprintln(c.App.Writer, status.ViewURL)
				} else {
					fmt.Fprintln(c.App.Writer, status.UploadID)
				}
			}
			return nil
		},
	}
}
