// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/base/benchreport/storage/db"
	"github.com/base/benchreport/storage/db/dbtest"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestQuery(t *testing.T) {
	app := createTestApp(t, dbtest.Manifest("r", 8))
	defer app.Close()

	tests := []struct {
		q    string
		want []string
	}{
		{"index:0", []string{"r0"}},
		{"testName:Transfer", []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"}},
		{"index:5 outputDir:r5", []string{"r5"}},
		{"NodeType:reth", []string{"r1", "r3", "r5", "r7"}},
		{"index:0 index:5", nil},
	}
	for _, test := range tests {
		t.Run("query="+test.q, func(t *testing.T) {
			u := app.srv.URL + "/search?" + url.Values{"q": []string{test.q}}.Encode()
			resp, err := http.Get(u)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != 200 {
				t.Fatalf("get /search: %v", resp.Status)
			}
			m, err := benchrun.ReadManifest(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, r := range m.Runs {
				got = append(got, r.ID)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("search mismatch (-want +got):\n%s", diff)
			}
		})
	}

	resp, err := http.Get(app.srv.URL + "/search?q=nocolon")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad query = %v, want 400", resp.Status)
	}
}

func TestUploads(t *testing.T) {
	app := createTestApp(t, dbtest.Manifest("r", 1), dbtest.Manifest("r", 2), dbtest.Manifest("r", 3))
	defer app.Close()

	resp, err := http.Get(app.srv.URL + "/uploads?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got []db.UploadInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := []db.UploadInfo{{UploadID: "3", Count: 3}, {UploadID: "2", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("/uploads mismatch (-want +got):\n%s", diff)
	}
}

type memFiles map[string][]benchrun.MetricPoint

func (memFiles) Manifest(ctx context.Context) (*benchrun.Manifest, error) {
	return nil, storage.ErrNotFound
}

func (m memFiles) Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error) {
	p, ok := m[benchrun.MetricsPath(outputDir, role)]
	if !ok {
		return nil, errors.Wrap(storage.ErrNotFound, outputDir)
	}
	return p, nil
}

// TestClientRoundTrip reads the server back through a storage.Client.
func TestClientRoundTrip(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()
	app.app.Files = memFiles{
		"output/r0/metrics-sequencer.json": {{BlockNumber: 1, ExecutionMetrics: map[string]float64{"gas/per_block": 5}}},
	}

	ctx := context.Background()
	c := storage.NewClient(app.srv.URL, "")
	m := &benchrun.Manifest{Runs: []benchrun.Run{{OutputDir: "r0", TestConfig: map[string]interface{}{"GasLimit": 1.0}}}}
	status, err := c.Upload(ctx, "m.json", m)
	if err != nil {
		t.Fatal(err)
	}
	if status.UploadID != "1" {
		t.Errorf("UploadID = %q, want 1", status.UploadID)
	}

	got, err := c.Manifest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Runs) != 1 || got.Runs[0].ID != "r0" {
		t.Errorf("Manifest() = %+v, want run r0", got.Runs)
	}
	found, err := c.Search(ctx, "GasLimit:1")
	if err != nil || len(found.Runs) != 1 {
		t.Errorf("Search(GasLimit:1) = %v, %v, want 1 run", found, err)
	}

	points, err := c.Metrics(ctx, "r0", benchrun.RoleSequencer)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Value("gas/per_block") != 5 {
		t.Errorf("Metrics() = %+v", points)
	}
	if _, err := c.Metrics(ctx, "r0", benchrun.RoleValidator); errors.Cause(err) != storage.ErrNotFound {
		t.Errorf("Metrics(validator) error = %v, want ErrNotFound", err)
	}
}

func TestParseMetricsPath(t *testing.T) {
	for _, test := range []struct {
		p               string
		outputDir, role string
		ok              bool
	}{
		{"output/run-1/metrics-sequencer.json", "run-1", "sequencer", true},
		{"output/a/b/metrics-validator.json", "a/b", "validator", true},
		{"output/run-1/other.json", "", "", false},
		{"output/metrics-sequencer.json", "", "", false},
		{"output/run-1/metrics-.json", "", "", false},
	} {
		dir, role, ok := parseMetricsPath(test.p)
		if dir != test.outputDir || role != test.role || ok != test.ok {
			t.Errorf("parseMetricsPath(%q) = %q, %q, %v, want %q, %q, %v", test.p, dir, role, ok, test.outputDir, test.role, test.ok)
		}
	}
}
