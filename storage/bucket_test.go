// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
)

// newFakeBucket serves the object listing of the JSON API for bucket
// "reports", with the given common prefixes.
func newFakeBucket(t *testing.T, prefixes ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/reports/o" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if got, want := q.Get("prefix"), "nightly/output/"; got != want {
			t.Errorf("list prefix = %q, want %q", got, want)
		}
		if got := q.Get("delimiter"); got != "/" {
			t.Errorf("list delimiter = %q, want /", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"kind": "storage#objects", "prefixes": [`)
		for i, p := range prefixes {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "%q", p)
		}
		fmt.Fprint(w, "]}")
	}))
}

func TestBucketOutputDirs(t *testing.T) {
	srv := newFakeBucket(t, "nightly/output/run-a/", "nightly/output/run-c/")
	defer srv.Close()

	// The emulator host skips the default credentials lookup.
	t.Setenv("STORAGE_EMULATOR_HOST", srv.URL)
	ctx := context.Background()
	b, err := NewBucketSource(ctx, "reports", "/nightly/", option.WithEndpoint(srv.URL+"/storage/v1/"))
	if err != nil {
		t.Fatal(err)
	}
	dirs, err := b.OutputDirs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"run-a", "run-c"}, dirs); diff != "" {
		t.Errorf("OutputDirs mismatch (-want +got):\n%s", diff)
	}
}
