// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import "testing"

func TestStatusOf(t *testing.T) {
	seq := &SequencerMetrics{ForkChoiceUpdated: 0.001, GetPayload: 0.5}
	val := &ValidatorMetrics{NewPayload: 0.2}
	done := func(success bool) *Result {
		return &Result{Success: success, Complete: true, SequencerMetrics: seq, ValidatorMetrics: val}
	}
	for _, test := range []struct {
		name string
		run  Run
		want Status
	}{
		{"no result", Run{}, StatusIncomplete},
		{"not complete", Run{Result: &Result{Success: true}}, StatusIncomplete},
		{"failed", Run{Result: done(false)}, StatusError},
		{"no thresholds", Run{Result: done(true)}, StatusSuccess},
		{"error threshold", Run{Result: done(true), Thresholds: &Thresholds{
			Error: map[string]float64{"latency/get_payload": 4e8},
		}}, StatusError},
		{"warning threshold", Run{Result: done(true), Thresholds: &Thresholds{
			Warning: map[string]float64{"latency/new_payload": 1e8},
			Error:   map[string]float64{"latency/new_payload": 1e9},
		}}, StatusWarning},
		{"below thresholds", Run{Result: done(true), Thresholds: &Thresholds{
			Warning: map[string]float64{"latency/get_payload": 6e8, "latency/fork_choice_updated": 2e6},
		}}, StatusSuccess},
		{"unrelated metric ignored", Run{Result: done(true), Thresholds: &Thresholds{
			Error: map[string]float64{"latency/send_txs": 1},
		}}, StatusSuccess},
		{"missing role metrics skipped", Run{Result: &Result{Success: true, Complete: true}, Thresholds: &Thresholds{
			Error: map[string]float64{"latency/new_payload": 1},
		}}, StatusSuccess},
	} {
		t.Run(test.name, func(t *testing.T) {
			if got := StatusOf(&test.run); got != test.want {
				t.Errorf("StatusOf = %s, want %s", got, test.want)
			}
		})
	}
}

func TestCountStatuses(t *testing.T) {
	runs := []Run{
		{},
		{Result: &Result{Complete: true, Success: true}},
		{Result: &Result{Complete: true, Success: true}},
		{Result: &Result{Complete: true}},
	}
	c := CountStatuses(runs)
	if c[StatusSuccess] != 2 || c[StatusIncomplete] != 1 || c[StatusError] != 1 || c[StatusWarning] != 0 {
		t.Errorf("CountStatuses = %v", c)
	}
}
