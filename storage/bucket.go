// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// A BucketSource reads a report from a Cloud Storage bucket. Object
// names are the report paths below Prefix.
type BucketSource struct {
	Bucket *gcs.BucketHandle
	Prefix string
}

// NewBucketSource returns a source reading from the named bucket.
func NewBucketSource(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*BucketSource, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &BucketSource{Bucket: client.Bucket(bucket), Prefix: prefix}, nil
}

// objectName returns the object holding report path p.
func objectName(prefix, p string) string {
	return path.Join(strings.Trim(prefix, "/"), p)
}

func (b *BucketSource) open(ctx context.Context, p string) (io.ReadCloser, error) {
	name := objectName(b.Prefix, p)
	r, err := b.Bucket.Object(name).NewReader(ctx)
	if err == gcs.ErrObjectNotExist {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return r, nil
}

// Manifest reads the manifest object.
func (b *BucketSource) Manifest(ctx context.Context) (*benchrun.Manifest, error) {
	r, err := b.open(ctx, benchrun.ManifestPath)
	if err != nil {
		return nil, err
	}
	return readManifest(r)
}

// Metrics reads the metric object of one role of a run.
func (b *BucketSource) Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error) {
	r, err := b.open(ctx, benchrun.MetricsPath(outputDir, role))
	if err != nil {
		return nil, err
	}
	return readMetrics(r)
}

// OutputDirs lists the run output directories present in the bucket.
func (b *BucketSource) OutputDirs(ctx context.Context) ([]string, error) {
	prefix := objectName(b.Prefix, "output") + "/"
	it := b.Bucket.Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})
	var dirs []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing output directories")
		}
		if attrs.Prefix != "" {
			dirs = append(dirs, strings.TrimSuffix(strings.TrimPrefix(attrs.Prefix, prefix), "/"))
		}
	}
	return dirs, nil
}
