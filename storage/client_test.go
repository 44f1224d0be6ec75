// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/base/benchreport/benchrun"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const manifestJSON = `{"runs": [
  {"outputDir": "run-a", "testName": "sweep", "testConfig": {"NodeType": "geth"}},
  {"id": "b", "outputDir": "run-b", "testName": "sweep", "testConfig": {"NodeType": "reth"}}
]}`

const metricsJSON = `[
  {"BlockNumber": 2, "ExecutionMetrics": {"gas/per_block": 200}},
  {"BlockNumber": 1, "ExecutionMetrics": {"gas/per_block": 100, "latency/send_txs": "n/a"}}
]`

func TestClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if have, want := r.Header.Get("Authorization"), "Bearer sekrit"; have != want {
			t.Errorf("Authorization = %q, want %q", have, want)
		}
		switch r.URL.Path {
		case "/output/test_metadata.json":
			fmt.Fprint(w, manifestJSON)
		case "/output/run-a/metrics-sequencer.json":
			fmt.Fprint(w, metricsJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", "sekrit")
	ctx := context.Background()

	m, err := c.Manifest(ctx)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if len(m.Runs) != 2 || m.Runs[0].ID != "run-a" || m.Runs[1].ID != "b" {
		t.Errorf("Manifest runs = %+v", m.Runs)
	}

	pts, err := c.Metrics(ctx, "run-a", "sequencer")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if len(pts) != 2 || pts[1].Value("gas/per_block") != 100 {
		t.Errorf("Metrics = %+v", pts)
	}

	_, err = c.Metrics(ctx, "run-a", "validator")
	if errors.Cause(err) != ErrNotFound {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if have, want := r.URL.RequestURI(), "/search?q=NodeType%3Ageth+GasLimit%3A100"; have != want {
			t.Errorf("RequestURI = %q, want %q", have, want)
		}
		fmt.Fprint(w, manifestJSON)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL}
	m, err := c.Search(context.Background(), "NodeType:geth GasLimit:100")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(m.Runs) != 2 {
		t.Errorf("Search returned %d runs, want 2", len(m.Runs))
	}
}

func TestUpload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/upload" {
			t.Errorf("got %s %s, want POST /upload", r.Method, r.URL.Path)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		m, err := benchrun.ReadManifest(f)
		if err != nil {
			t.Fatalf("ReadManifest: %v", err)
		}
		json.NewEncoder(w).Encode(&UploadStatus{UploadID: "1", RunIDs: []string{m.Runs[0].ID}})
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL}
	m := &benchrun.Manifest{Runs: []benchrun.Run{{ID: "x", OutputDir: "x"}}}
	status, err := c.Upload(context.Background(), "test_metadata.json", m)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if diff := cmp.Diff(&UploadStatus{UploadID: "1", RunIDs: []string{"x"}}, status); diff != "" {
		t.Errorf("status (-want +got):\n%s", diff)
	}
}

func TestUploadError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ioutil.ReadAll(r.Body)
		http.Error(w, "bad manifest", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL}
	if _, err := c.Upload(context.Background(), "m.json", &benchrun.Manifest{}); err == nil {
		t.Errorf("Upload succeeded against failing server")
	}
}
