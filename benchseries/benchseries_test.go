// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"bytes"
	"math"
	"testing"

	"github.com/base/benchreport/benchrun"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func run(dir string, cfg map[string]interface{}) benchrun.Run {
	return benchrun.Run{ID: dir, OutputDir: dir, TestConfig: cfg}
}

func TestWithRoles(t *testing.T) {
	runs := []benchrun.Run{run("a", map[string]interface{}{"NodeType": "geth"})}
	got := WithRoles(runs)
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	for i, role := range benchrun.Roles {
		if r, _ := got[i].Config(benchrun.RoleKey); r != role {
			t.Errorf("run %d role = %q, want %q", i, r, role)
		}
	}
	if _, ok := runs[0].TestConfig[benchrun.RoleKey]; ok {
		t.Errorf("WithRoles modified its input")
	}
}

func TestAssembleByRole(t *testing.T) {
	runs := WithRoles([]benchrun.Run{run("a", map[string]interface{}{"NodeType": "geth"})})
	got := Assemble(runs, "")
	want := []Request{
		{OutputDir: "a", Role: "sequencer", Name: "sequencer"},
		{OutputDir: "a", Role: "validator", Name: "validator"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assemble (-want +got):\n%s", diff)
	}
}

func TestAssembleGasLimit(t *testing.T) {
	runs := WithRoles([]benchrun.Run{
		run("lo", map[string]interface{}{"GasLimit": 1.2e9}),
		run("hi", map[string]interface{}{"GasLimit": 3.6e9}),
	})
	got := Assemble(runs, benchrun.GasLimitKey)
	if len(got) != 4 {
		t.Fatalf("got %d requests, want 4", len(got))
	}
	if got[0].Name != "1.2 Ggas" || got[2].Name != "3.6 Ggas" {
		t.Errorf("names = %q, %q, want 1.2 Ggas, 3.6 Ggas", got[0].Name, got[2].Name)
	}
	for _, r := range got {
		if r.Color == "" {
			t.Errorf("request %+v has no gradient color", r)
		}
	}
	if got[0].Color == got[2].Color {
		t.Errorf("min and max share color %s", got[0].Color)
	}
	if got[0].Color != got[1].Color {
		t.Errorf("equal values have colors %s and %s", got[0].Color, got[1].Color)
	}
}

func TestAssembleSkips(t *testing.T) {
	runs := []benchrun.Run{
		run("", map[string]interface{}{"role": "sequencer"}),
		run("noconfig", nil),
		run("norole", map[string]interface{}{"NodeType": "geth"}),
		run("ok", map[string]interface{}{"role": "validator", "NodeType": "reth"}),
	}
	got := Assemble(runs, "NodeType")
	want := []Request{{OutputDir: "ok", Role: "validator", Name: "reth"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assemble (-want +got):\n%s", diff)
	}
}

func TestGradient(t *testing.T) {
	g := NewGradient([]float64{10, 20, 30})
	for _, test := range []struct{ v, want float64 }{{10, 0}, {20, 0.5}, {30, 1}} {
		if got := g.Position(test.v); got != test.want {
			t.Errorf("Position(%v) = %v, want %v", test.v, got, test.want)
		}
	}

	flat := NewGradient([]float64{5, 5})
	if got := flat.Position(5); got != 0.5 {
		t.Errorf("degenerate Position = %v, want 0.5", got)
	}
	if c := flat.Color(5); c == "" {
		t.Errorf("degenerate Color is empty")
	}
}

func TestPropagator(t *testing.T) {
	var calls [][]Request
	p := NewPropagator(func(r []Request) { calls = append(calls, r) })

	a := []Request{{OutputDir: "a", Role: "sequencer", Name: "x"}}
	if p.Update(nil) {
		t.Errorf("empty initial list was forwarded")
	}
	if !p.Update(a) {
		t.Errorf("first list was not forwarded")
	}
	if p.Update([]Request{{OutputDir: "a", Role: "sequencer", Name: "x"}}) {
		t.Errorf("equal list was forwarded")
	}
	b := []Request{{OutputDir: "a", Role: "sequencer", Name: "x", Color: "#fff"}}
	if !p.Update(b) {
		t.Errorf("changed list was not forwarded")
	}
	if len(calls) != 2 {
		t.Errorf("sink called %d times, want 2", len(calls))
	}
	if diff := cmp.Diff(b, p.Last()); diff != "" {
		t.Errorf("Last (-want +got):\n%s", diff)
	}
}

func points(vals ...float64) []benchrun.MetricPoint {
	var pts []benchrun.MetricPoint
	for i, v := range vals {
		m := map[string]float64{}
		if !math.IsNaN(v) {
			m["gas/per_block"] = v
		}
		pts = append(pts, benchrun.MetricPoint{BlockNumber: uint64(i + 1), ExecutionMetrics: m})
	}
	return pts
}

func TestBuild(t *testing.T) {
	thr := &benchrun.Thresholds{Warning: map[string]float64{"latency/get_payload": 1}}
	reqs := []Request{
		{OutputDir: "a", Role: "sequencer", Name: "A", Thresholds: thr},
		{OutputDir: "b", Role: "sequencer", Name: "B"},
	}
	pts := points(1, 2)
	pts[0], pts[1] = pts[1], pts[0]
	got := Build(reqs, map[Key][]benchrun.MetricPoint{{"a", "sequencer"}: pts})
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("Build = %+v, want only series A", got)
	}
	if got[0].Thresholds != thr {
		t.Errorf("thresholds not carried over")
	}
	if got[0].Points[0].BlockNumber != 1 || pts[0].BlockNumber != 2 {
		t.Errorf("points not sorted into a copy")
	}
}

func TestColorOf(t *testing.T) {
	series := []Series{{Color: "#123456"}, {}, {}}
	if got := ColorOf(series, 0); got != "#123456" {
		t.Errorf("ColorOf(0) = %s", got)
	}
	if got := ColorOf(series, 2); got != Palette[2] {
		t.Errorf("ColorOf(2) = %s, want %s", got, Palette[2])
	}
	c, err := ParseColor("#1f77b4")
	if err != nil || c.R != 0x1f || c.G != 0x77 || c.B != 0xb4 {
		t.Errorf("ParseColor = %v, %v", c, err)
	}
	if _, err := ParseColor("blue"); err == nil {
		t.Errorf("ParseColor(blue) succeeded")
	}
}

func TestSegments(t *testing.T) {
	s := Series{Points: points(1, math.NaN(), 3, 4, math.NaN())}
	segs := segments(&s, "gas/per_block")
	if len(segs) != 2 || len(segs[0]) != 1 || len(segs[1]) != 2 {
		t.Errorf("segments = %v, want [[1] [3 4]]", segs)
	}
}

func TestWritePNG(t *testing.T) {
	series := []Series{
		{Name: "geth", Points: points(10, 20, math.NaN(), 15)},
		{Name: "reth", Points: points(12, 18, 19, 21)},
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, series, "gas/per_block", PNGOptions{Title: "Gas Per Block", Unit: "gas"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}

	err := WritePNG(&buf, series, "missing", PNGOptions{})
	if errors.Cause(err) != ErrNoData {
		t.Errorf("WritePNG(missing) = %v, want ErrNoData", err)
	}
}
