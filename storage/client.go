// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/oauth2"
)

// A Client fetches reports from a report server, or any static file
// server holding the runner's output directory. It is safe to use
// from multiple goroutines simultaneously.
type Client struct {
	// BaseURL is the base URL of the server.
	BaseURL string
	// HTTPClient is the HTTP client for sending requests. If nil, http.DefaultClient will be used.
	HTTPClient *http.Client
}

// NewClient returns a client for the server at baseURL. If token is
// not empty, requests carry it as an OAuth2 bearer token.
func NewClient(baseURL, token string) *Client {
	c := &Client{BaseURL: strings.TrimSuffix(baseURL, "/")}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c.HTTPClient = oauth2.NewClient(context.Background(), ts)
	}
	return c
}

// httpClient returns the http.Client to use for requests.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// get fetches the file at path p relative to the base URL.
func (c *Client) get(ctx context.Context, p string) (io.ReadCloser, error) {
	u := c.BaseURL + "/" + p
	resp, err := ctxhttp.Get(ctx, c.httpClient(), u)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, errors.Wrap(ErrNotFound, u)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, errors.Errorf("%s: %s: %s", u, resp.Status, body)
	}
	return resp.Body, nil
}

// Manifest fetches the server's manifest.
func (c *Client) Manifest(ctx context.Context) (*benchrun.Manifest, error) {
	body, err := c.get(ctx, benchrun.ManifestPath)
	if err != nil {
		return nil, err
	}
	return readManifest(body)
}

// Metrics fetches the metric points of one role of a run.
func (c *Client) Metrics(ctx context.Context, outputDir, role string) ([]benchrun.MetricPoint, error) {
	body, err := c.get(ctx, benchrun.MetricsPath(outputDir, role))
	if err != nil {
		return nil, err
	}
	return readMetrics(body)
}

// Search returns the runs stored on a report server that match q.
// The query syntax is that of storage/db.
func (c *Client) Search(ctx context.Context, q string) (*benchrun.Manifest, error) {
	body, err := c.get(ctx, "search?"+url.Values{"q": []string{q}}.Encode())
	if err != nil {
		return nil, err
	}
	return readManifest(body)
}

// UploadStatus is the response to an upload.
type UploadStatus struct {
	// UploadID is the upload ID assigned to the upload.
	UploadID string `json:"uploadid"`
	// RunIDs are the IDs of the uploaded runs.
	RunIDs []string `json:"runids"`
	// ViewURL is a server-supplied URL to view the results.
	ViewURL string `json:"viewurl,omitempty"`
}

// Upload sends m to a report server for storage.
func (c *Client) Upload(ctx context.Context, name string, m *benchrun.Manifest) (*UploadStatus, error) {
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	w, err := mpw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if err := benchrun.WriteManifest(w, m); err != nil {
		return nil, err
	}
	if err := mpw.Close(); err != nil {
		return nil, err
	}

	resp, err := ctxhttp.Post(ctx, c.httpClient(), c.BaseURL+"/upload", mpw.FormDataContentType(), &buf)
	if err != nil {
		return nil, errors.Wrap(err, "upload failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := ioutil.ReadAll(resp.Body)
		return nil, errors.Errorf("upload failed: %s: %s", resp.Status, body)
	}

	status := &UploadStatus{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, errors.Wrap(err, "cannot parse upload response")
	}
	return status, nil
}
