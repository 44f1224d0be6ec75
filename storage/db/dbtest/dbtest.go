// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides run databases and manifests for tests of
// the storage packages.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage/db"
	_ "github.com/base/benchreport/storage/db/sqlite3"
)

var cloud = flag.Bool("cloud", false, "connect to Cloud SQL database instead of in-memory SQLite")
var cloudsql = flag.String("cloudsql", "benchreport:us-central1:benchreport", "name of Cloud SQL instance to run tests on")

// cloudDB creates a new, empty MySQL database on the Cloud SQL
// instance and returns its DSN and a function that drops it.
func cloudDB(t *testing.T) (dsn string, drop func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "benchreport-test-" + base64.RawURLEncoding.EncodeToString(buf)
	server := fmt.Sprintf("root:@cloudsql(%s)/", *cloudsql)

	conn, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		conn.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", name)

	return server + name, func() {
		if _, err := conn.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		conn.Close()
	}
}

// NewDB makes a connection to an empty run database, either sqlite3 or
// Cloud SQL depending on the -cloud flag. cleanup must be called when
// done with the database, instead of calling db.Close().
func NewDB(t *testing.T) (d *db.DB, cleanup func()) {
	t.Helper()
	driverName, dsn := "sqlite3", ":memory:"
	drop := func() {}
	if *cloud {
		driverName = "mysql"
		dsn, drop = cloudDB(t)
	}
	d, err := db.OpenSQL(driverName, dsn)
	if err != nil {
		drop()
		t.Fatalf("open database: %v", err)
	}
	cleanup = func() {
		d.Close()
		drop()
	}

	runs, err := d.Runs(context.Background(), "")
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if len(runs) != 0 {
		cleanup()
		t.Fatalf("found %d run(s) in a new database, want 0", len(runs))
	}
	return d, cleanup
}

// NewDBWithManifests is like NewDB, but the database holds one upload
// per manifest, in order. Upload i has ID strconv.Itoa(i+1).
func NewDBWithManifests(t *testing.T, ms ...*benchrun.Manifest) (*db.DB, func()) {
	t.Helper()
	d, cleanup := NewDB(t)
	for i, m := range ms {
		if _, err := d.InsertManifest(context.Background(), m); err != nil {
			cleanup()
			t.Fatalf("inserting manifest %d: %v", i, err)
		}
	}
	return d, cleanup
}

// Manifest returns a manifest of n complete, successful runs with
// output directories prefix0, prefix1, and so on. Run i is
// configured with "index" i and alternates between the geth and reth
// node types; every run has a gas limit of 30M.
func Manifest(prefix string, n int) *benchrun.Manifest {
	m := &benchrun.Manifest{}
	for i := 0; i < n; i++ {
		node := "geth"
		if i%2 == 1 {
			node = "reth"
		}
		dir := fmt.Sprintf("%s%d", prefix, i)
		m.Runs = append(m.Runs, benchrun.Run{
			ID:        dir,
			OutputDir: dir,
			TestName:  "Transfer",
			TestConfig: map[string]interface{}{
				"index":              float64(i),
				"NodeType":           node,
				benchrun.GasLimitKey: 30e6,
			},
			Result: &benchrun.Result{Success: true, Complete: true},
		})
	}
	return m
}
