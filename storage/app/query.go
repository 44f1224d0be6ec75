// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/pkg/errors"
)

// search serves the runs matching the q parameter as a manifest. An
// empty query matches every run.
func (a *App) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runs, err := a.DB.Runs(r.Context(), r.Form.Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeManifest(w, r, &benchrun.Manifest{Runs: runs})
}

// uploads lists recent uploads. The optional limit parameter defaults
// to 50.
func (a *App) uploads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := 50
	if l := r.Form.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}
	list, err := a.DB.ListUploads(r.Context(), limit)
	if err != nil {
		errorf(r, err, "listing uploads")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		errorf(r, err, "writing uploads response")
	}
}

// output serves the files of a report root: the manifest of every
// stored run and the metric files of a.Files. This lets a
// storage.Client use the server as a report source.
func (a *App) output(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := strings.TrimPrefix(r.URL.Path, "/")
	src := a.source()

	if p == benchrun.ManifestPath {
		m, err := src.Manifest(ctx)
		if err != nil {
			errorf(r, err, "reading manifest")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeManifest(w, r, m)
		return
	}

	outputDir, role, ok := parseMetricsPath(p)
	if !ok {
		http.NotFound(w, r)
		return
	}
	points, err := src.Metrics(ctx, outputDir, role)
	if errors.Cause(err) == storage.ErrNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		errorf(r, err, "reading metrics")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := benchrun.WriteMetrics(w, points); err != nil {
		errorf(r, err, "writing metrics")
	}
}

// parseMetricsPath is the inverse of benchrun.MetricsPath.
func parseMetricsPath(p string) (outputDir, role string, ok bool) {
	p = strings.TrimPrefix(p, "output/")
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "", "", false
	}
	file := p[i+1:]
	if !strings.HasPrefix(file, "metrics-") || !strings.HasSuffix(file, ".json") {
		return "", "", false
	}
	role = strings.TrimSuffix(strings.TrimPrefix(file, "metrics-"), ".json")
	if role == "" {
		return "", "", false
	}
	return p[:i], role, true
}

func writeManifest(w http.ResponseWriter, r *http.Request, m *benchrun.Manifest) {
	w.Header().Set("Content-Type", "application/json")
	if err := benchrun.WriteManifest(w, m); err != nil {
		errorf(r, err, "writing manifest")
	}
}
