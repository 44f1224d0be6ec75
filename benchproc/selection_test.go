// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"encoding/base64"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectionRoundTrip(t *testing.T) {
	s := NewSelection("NodeType").With("GasLimit", "200").With("ExtraParam", "true")
	got, err := DecodeSelection(EncodeSelection(s), NewSelection("role"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip differs (-want +got):\n%s", diff)
	}
}

func TestDecodeSelectionScalars(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte(`{"params":{"GasLimit":200,"Flag":false},"byMetric":"NodeType"}`))
	got, err := DecodeSelection(enc, NewSelection("role"))
	if err != nil {
		t.Fatal(err)
	}
	want := Selection{Params: map[string]string{"GasLimit": "200", "Flag": "false"}, ByMetric: "NodeType"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeSelection differs (-want +got):\n%s", diff)
	}
}

func TestDecodeSelectionFallback(t *testing.T) {
	def := NewSelection("role")
	for _, in := range []string{
		"!!!not base64",
		base64.StdEncoding.EncodeToString([]byte("not json")),
	} {
		got, err := DecodeSelection(in, def)
		if err == nil {
			t.Errorf("DecodeSelection(%q) succeeded, want error", in)
		}
		if diff := cmp.Diff(def, got); diff != "" {
			t.Errorf("DecodeSelection(%q) did not fall back (-want +got):\n%s", in, diff)
		}
	}
	got, err := DecodeSelection("", def)
	if err != nil || !cmp.Equal(def, got) {
		t.Errorf("DecodeSelection(\"\") = %v, %v, want default", got, err)
	}
	enc := base64.StdEncoding.EncodeToString([]byte(`{"params":{}}`))
	got, err = DecodeSelection(enc, def)
	if err != nil || got.ByMetric != "role" {
		t.Errorf("DecodeSelection without byMetric = %v, %v, want byMetric role", got, err)
	}
}

func TestSelectionWith(t *testing.T) {
	s := NewSelection("role").With("A", "1")
	cleared := s.With("A", AnyValue)
	if _, ok := cleared.Params["A"]; ok {
		t.Errorf("With(A, any) kept A")
	}
	if s.Params["A"] != "1" {
		t.Errorf("With modified its receiver")
	}
	if got := s.GroupBy("GasLimit"); len(got.Params) != 0 || got.ByMetric != "GasLimit" {
		t.Errorf("GroupBy = %v, want empty params grouped by GasLimit", got)
	}
}
