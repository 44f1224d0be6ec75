// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"encoding/base64"
	"encoding/json"

	"github.com/base/benchreport/benchrun"
	"github.com/pkg/errors"
)

// SelectionParam is the URL query parameter that carries an encoded
// Selection.
const SelectionParam = "filters"

// AnyValue is the filter value that clears a selection.
const AnyValue = "any"

// A Selection is the user's filter state: a value per filtered
// variable and the variable that splits matched runs into series.
type Selection struct {
	Params   map[string]string `json:"params"`
	ByMetric string            `json:"byMetric"`
}

// NewSelection returns an empty selection grouped by byMetric.
func NewSelection(byMetric string) Selection {
	return Selection{Params: map[string]string{}, ByMetric: byMetric}
}

// UnmarshalJSON accepts parameter values of any scalar JSON type and
// stores their string form.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Params   map[string]interface{} `json:"params"`
		ByMetric string                 `json:"byMetric"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ByMetric = raw.ByMetric
	s.Params = make(map[string]string, len(raw.Params))
	for k, v := range raw.Params {
		s.Params[k] = benchrun.ValueString(v)
	}
	return nil
}

// With returns a copy of s with variable k set to value. An empty
// value or AnyValue removes the constraint on k.
func (s Selection) With(k, value string) Selection {
	params := make(map[string]string, len(s.Params)+1)
	for pk, pv := range s.Params {
		params[pk] = pv
	}
	if value == "" || value == AnyValue {
		delete(params, k)
	} else {
		params[k] = value
	}
	return Selection{Params: params, ByMetric: s.ByMetric}
}

// GroupBy returns the selection that groups by metric. Changing what
// runs are grouped by invalidates every filter, so the result has
// none.
func (s Selection) GroupBy(metric string) Selection {
	return NewSelection(metric)
}

// EncodeSelection returns the URL form of s: base64-encoded JSON.
func EncodeSelection(s Selection) string {
	if s.Params == nil {
		s.Params = map[string]string{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		// A Selection only holds strings.
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeSelection parses the URL form of a Selection. An empty string
// yields def. If enc cannot be decoded, DecodeSelection returns def
// along with the error, which callers are expected to log rather than
// report.
func DecodeSelection(enc string, def Selection) (Selection, error) {
	if enc == "" {
		return def, nil
	}
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return def, errors.Wrap(err, "decoding selection")
	}
	var s Selection
	if err := json.Unmarshal(data, &s); err != nil {
		return def, errors.Wrap(err, "parsing selection")
	}
	if s.ByMetric == "" {
		s.ByMetric = def.ByMetric
	}
	return s, nil
}
