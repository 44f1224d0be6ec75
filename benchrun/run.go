// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchrun reads benchmark run manifests and per-run metric
// files and provides a read-only catalog over the runs of a manifest.
//
// A manifest is the JSON document written by the benchmark runner
// (conventionally output/test_metadata.json). Each run in it
// describes one executed benchmark: its configuration, where its
// output lives, and an optional summary result.
package benchrun

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
)

// Role names used to locate per-run metric files.
const (
	RoleSequencer = "sequencer"
	RoleValidator = "validator"
)

// RoleKey is the configuration key a run's role is presented under.
// Roles are not stored in manifests; see WithConfig.
const RoleKey = "role"

// Roles lists every role a run produces metrics for.
var Roles = []string{RoleSequencer, RoleValidator}

// BenchmarkRunTag is the configuration key that groups runs produced
// by a single invocation of the benchmark runner.
const BenchmarkRunTag = "BenchmarkRun"

// GasLimitKey is the configuration key holding a run's block gas
// limit. Its values are displayed in the gas unit.
const GasLimitKey = "GasLimit"

// A Run is one executed benchmark instance.
type Run struct {
	ID              string                 `json:"id"`
	SourceFile      string                 `json:"sourceFile"`
	OutputDir       string                 `json:"outputDir"`
	TestName        string                 `json:"testName"`
	TestDescription string                 `json:"testDescription"`
	TestConfig      map[string]interface{} `json:"testConfig"`
	Result          *Result                `json:"result"`
	Thresholds      *Thresholds            `json:"thresholds,omitempty"`
	CreatedAt       *time.Time             `json:"createdAt,omitempty"`
}

// Result is the summary outcome of a run.
type Result struct {
	Success          bool              `json:"success"`
	Complete         bool              `json:"complete"`
	SequencerMetrics *SequencerMetrics `json:"sequencerMetrics,omitempty"`
	ValidatorMetrics *ValidatorMetrics `json:"validatorMetrics,omitempty"`
}

// SequencerMetrics are the per-run averages reported by the
// sequencer. Latencies are in seconds.
type SequencerMetrics struct {
	GasPerSecond      float64  `json:"gasPerSecond"`
	ForkChoiceUpdated float64  `json:"forkChoiceUpdated"`
	GetPayload        float64  `json:"getPayload"`
	SendTxs           *float64 `json:"sendTxs,omitempty"`
}

// ValidatorMetrics are the per-run averages reported by the
// validator. Latencies are in seconds.
type ValidatorMetrics struct {
	GasPerSecond float64 `json:"gasPerSecond"`
	NewPayload   float64 `json:"newPayload"`
}

// Thresholds maps metric paths (such as "latency/get_payload") to
// warning and error limits in nanoseconds.
type Thresholds struct {
	Warning map[string]float64 `json:"warning,omitempty"`
	Error   map[string]float64 `json:"error,omitempty"`
}

// A Manifest is the set of runs of one report.
type Manifest struct {
	Runs      []Run      `json:"runs"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// ReadManifest decodes a manifest from r and derives the identifier
// of every run that lacks one.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	for i := range m.Runs {
		m.Runs[i].ID = DeriveID(&m.Runs[i])
	}
	return &m, nil
}

// WriteManifest encodes m to w.
func WriteManifest(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(m), "encoding manifest")
}

// DeriveID returns the identifier of r: its ID if set, otherwise its
// output directory.
func DeriveID(r *Run) string {
	if r.ID != "" {
		return r.ID
	}
	return r.OutputDir
}

// Config returns the string form of configuration key k of r and
// whether r has that key.
func (r *Run) Config(k string) (string, bool) {
	v, ok := r.TestConfig[k]
	if !ok {
		return "", false
	}
	return ValueString(v), true
}

// BenchmarkRunID returns the benchmark run r belongs to, or "".
func (r *Run) BenchmarkRunID() string {
	id, _ := r.Config(BenchmarkRunTag)
	return id
}

// WithConfig returns a copy of r whose configuration additionally
// maps k to v. r itself is not modified.
func (r Run) WithConfig(k string, v interface{}) Run {
	cfg := make(map[string]interface{}, len(r.TestConfig)+1)
	for ck, cv := range r.TestConfig {
		cfg[ck] = cv
	}
	cfg[k] = v
	r.TestConfig = cfg
	return r
}
