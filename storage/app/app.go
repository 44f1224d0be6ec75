// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the report storage server. Combine an App
// with a database and a source of metric files to get an HTTP server.
package app

import (
	"net/http"

	"github.com/base/benchreport/storage"
	"github.com/base/benchreport/storage/db"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// App manages the storage server logic. Construct an App instance
// using a literal with a DB and call RegisterOnMux to connect it with
// an HTTP server.
type App struct {
	DB *db.DB

	// Files serves the metric files of stored runs. If nil, the
	// server has no metric files.
	Files storage.Source

	// ViewURLBase, if set, is prefixed to the upload ID to form the
	// view URL returned from /upload.
	ViewURLBase string

	// Auth obtains the username for the request.
	// If necessary, it can write its own response (e.g. a
	// redirect) and return ErrResponseWritten.
	Auth func(http.ResponseWriter, *http.Request) (string, error)
}

// ErrResponseWritten can be returned by App.Auth to abort the normal /upload handling.
var ErrResponseWritten = errors.New("response written")

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/upload", a.upload)
	mux.HandleFunc("/search", a.search)
	mux.HandleFunc("/uploads", a.uploads)
	mux.HandleFunc("/output/", a.output)
}

// source returns the storage.Source view of every stored run.
func (a *App) source() *db.Source {
	return &db.Source{DB: a.DB, Files: a.Files}
}

func errorf(r *http.Request, err error, msg string) {
	grip.Error(message.WrapError(err, message.Fields{
		"message": msg,
		"path":    r.URL.Path,
		"method":  r.Method,
	}))
}
