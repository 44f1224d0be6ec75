// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/base/benchreport/storage/db"
	"github.com/base/benchreport/storage/db/dbtest"
	"github.com/google/go-cmp/cmp"
)

type testApp struct {
	db        *db.DB
	dbCleanup func()
	app       *App
	srv       *httptest.Server
}

func (app *testApp) Close() {
	app.dbCleanup()
	app.srv.Close()
}

// createTestApp returns a testApp corresponding to a new app
// serving from an in-memory database holding one upload per manifest.
func createTestApp(t *testing.T, ms ...*benchrun.Manifest) *testApp {
	db, cleanup := dbtest.NewDBWithManifests(t, ms...)
	app := &App{DB: db}
	mux := http.NewServeMux()
	app.RegisterOnMux(mux)
	srv := httptest.NewServer(mux)
	return &testApp{db, cleanup, app, srv}
}

// uploadFiles calls the /upload endpoint and executes f in a new
// goroutine to write files to the POST request.
func (app *testApp) uploadFiles(t *testing.T, f func(*multipart.Writer)) *storage.UploadStatus {
	pr, pw := io.Pipe()
	mpw := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer mpw.Close()
		f(mpw)
	}()
	resp, err := http.Post(app.srv.URL+"/upload", mpw.FormDataContentType(), pr)
	if err != nil {
		t.Fatalf("post /upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("post /upload: %v: %s", resp.Status, body)
	}
	status := &storage.UploadStatus{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		t.Fatalf("parsing /upload response: %v", err)
	}
	return status
}

// writeManifestFile writes a manifest of n runs named prefix0, prefix1, ...
func writeManifestFile(t *testing.T, mpw *multipart.Writer, name, prefix string, n int) {
	w, err := mpw.CreateFormFile("file", name)
	if err != nil {
		t.Errorf("CreateFormFile: %v", err)
		return
	}
	if err := benchrun.WriteManifest(w, dbtest.Manifest(prefix, n)); err != nil {
		t.Errorf("WriteManifest: %v", err)
	}
}

func TestUpload(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	status := app.uploadFiles(t, func(mpw *multipart.Writer) {
		writeManifestFile(t, mpw, "1.json", "a", 2)
		writeManifestFile(t, mpw, "2.json", "b", 1)
	})
	want := &storage.UploadStatus{UploadID: "1", RunIDs: []string{"a0", "a1", "b0"}}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("upload status mismatch (-want +got):\n%s", diff)
	}
	if n, err := app.db.CountUploads(); err != nil || n != 1 {
		t.Errorf("CountUploads() = %d, %v, want 1", n, err)
	}
}

func TestUploadJSON(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()
	app.app.ViewURLBase = "http://viewer/?q=uploadid:"

	body := `{"runs": [{"outputDir": "x", "testConfig": {"GasLimit": 1}}]}`
	resp, err := http.Post(app.srv.URL+"/upload", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status storage.UploadStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	want := storage.UploadStatus{UploadID: "1", RunIDs: []string{"x"}, ViewURL: "http://viewer/?q=uploadid:1"}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("upload status mismatch (-want +got):\n%s", diff)
	}
}

func TestUploadErrors(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()

	resp, err := http.Get(app.srv.URL + "/upload")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /upload = %v, want 405", resp.Status)
	}

	resp, err = http.Post(app.srv.URL+"/upload", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /upload with bad JSON = %v, want 400", resp.Status)
	}
	if n, _ := app.db.CountUploads(); n != 0 {
		t.Errorf("bad upload created %d uploads", n)
	}
}

func TestUploadAuth(t *testing.T) {
	app := createTestApp(t)
	defer app.Close()
	app.app.Auth = func(w http.ResponseWriter, r *http.Request) (string, error) {
		http.Error(w, "go away", http.StatusForbidden)
		return "", ErrResponseWritten
	}

	resp, err := http.Post(app.srv.URL+"/upload", "application/json", strings.NewReader(`{"runs": []}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("POST /upload = %v, want 403", resp.Status)
	}
}
