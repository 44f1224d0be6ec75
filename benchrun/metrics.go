// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"encoding/json"
	"io"
	"math"
	"path"

	"github.com/pkg/errors"
)

// ManifestPath is the path of the manifest relative to a report root.
const ManifestPath = "output/test_metadata.json"

// MetricsPath returns the path of the metric file for one role of the
// run whose output is in outputDir, relative to a report root.
func MetricsPath(outputDir, role string) string {
	return path.Join("output", outputDir, "metrics-"+role+".json")
}

// A MetricPoint is the set of metrics observed for one block.
type MetricPoint struct {
	BlockNumber      uint64             `json:"BlockNumber"`
	ExecutionMetrics map[string]float64 `json:"ExecutionMetrics"`
}

// Value returns the value of metric name at p. Missing values are
// reported as NaN.
func (p *MetricPoint) Value(name string) float64 {
	v, ok := p.ExecutionMetrics[name]
	if !ok {
		return math.NaN()
	}
	return v
}

type rawPoint struct {
	BlockNumber      uint64                     `json:"BlockNumber"`
	ExecutionMetrics map[string]json.RawMessage `json:"ExecutionMetrics"`
}

// ReadMetrics decodes a per-run metric file. Metric values that are
// not numbers are stored as NaN so they read as missing.
func ReadMetrics(r io.Reader) ([]MetricPoint, error) {
	var raw []rawPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding metrics")
	}
	points := make([]MetricPoint, len(raw))
	for i, rp := range raw {
		p := MetricPoint{
			BlockNumber:      rp.BlockNumber,
			ExecutionMetrics: make(map[string]float64, len(rp.ExecutionMetrics)),
		}
		for name, msg := range rp.ExecutionMetrics {
			f := math.NaN()
			if string(msg) != "null" {
				if err := json.Unmarshal(msg, &f); err != nil {
					f = math.NaN()
				}
			}
			p.ExecutionMetrics[name] = f
		}
		points[i] = p
	}
	return points, nil
}

// WriteMetrics encodes points to w in the form ReadMetrics reads.
// NaN and infinite values are written as null.
func WriteMetrics(w io.Writer, points []MetricPoint) error {
	raw := make([]rawPoint, len(points))
	for i, p := range points {
		rp := rawPoint{
			BlockNumber:      p.BlockNumber,
			ExecutionMetrics: make(map[string]json.RawMessage, len(p.ExecutionMetrics)),
		}
		for name, v := range p.ExecutionMetrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				rp.ExecutionMetrics[name] = json.RawMessage("null")
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				return errors.WithStack(err)
			}
			rp.ExecutionMetrics[name] = b
		}
		raw[i] = rp
	}
	return errors.Wrap(json.NewEncoder(w).Encode(raw), "encoding metrics")
}
