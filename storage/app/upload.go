// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/base/benchreport/benchrun"
	"github.com/base/benchreport/storage"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// upload is the handler for the /upload endpoint. It accepts a
// manifest as a JSON request body, or one or more manifests as "file"
// parts of a multipart/form-data POST request. All runs of one
// request share an upload ID.
func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "/upload must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}

	var user string
	if a.Auth != nil {
		var err error
		user, err = a.Auth(w, r)
		switch {
		case err == ErrResponseWritten:
			return
		case err != nil:
			errorf(r, err, "upload authentication failed")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	var manifests []*benchrun.Manifest
	var err error
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		// We use r.MultipartReader instead of r.ParseForm to avoid
		// storing uploaded data in memory.
		var mr *multipart.Reader
		if mr, err = r.MultipartReader(); err == nil {
			manifests, err = readParts(mr)
		}
	} else {
		var m *benchrun.Manifest
		if m, err = benchrun.ReadManifest(r.Body); err == nil {
			manifests = append(manifests, m)
		}
	}
	if err != nil {
		errorf(r, err, "reading upload")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := a.processUpload(ctx, manifests)
	if err != nil {
		errorf(r, err, "storing upload")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	grip.Info(message.Fields{
		"message":  "stored upload",
		"uploadid": result.UploadID,
		"runs":     len(result.RunIDs),
		"user":     user,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		errorf(r, err, "writing upload response")
	}
}

// readParts decodes the "file" parts of mr as manifests.
func readParts(mr *multipart.Reader) ([]*benchrun.Manifest, error) {
	var manifests []*benchrun.Manifest
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if name := p.FormName(); name != "file" {
			return nil, errors.Errorf("unexpected field %q", name)
		}
		m, err := benchrun.ReadManifest(p)
		if err != nil {
			return nil, errors.Wrapf(err, "file %q", p.FileName())
		}
		manifests = append(manifests, m)
	}
	if len(manifests) == 0 {
		return nil, errors.New("no files uploaded")
	}
	return manifests, nil
}

// processUpload stores the runs of manifests in a new upload. If any
// run cannot be stored, the upload is not created.
func (a *App) processUpload(ctx context.Context, manifests []*benchrun.Manifest) (*storage.UploadStatus, error) {
	all := &benchrun.Manifest{}
	for _, m := range manifests {
		all.Runs = append(all.Runs, m.Runs...)
	}
	u, err := a.DB.InsertManifest(ctx, all)
	if err != nil {
		return nil, err
	}
	status := &storage.UploadStatus{UploadID: u.ID}
	for _, r := range all.Runs {
		status.RunIDs = append(status.RunIDs, r.ID)
	}
	if a.ViewURLBase != "" {
		status.ViewURL = a.ViewURLBase + u.ID
	}
	return status, nil
}
