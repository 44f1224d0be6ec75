// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

// A Status summarizes the outcome of a run.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusSuccess    Status = "success"
	StatusFatal      Status = "fatal"
	StatusError      Status = "error"
	StatusWarning    Status = "warning"
)

// statusMetric locates the summary value a threshold applies to.
type statusMetric struct {
	get   func(*Result) (float64, bool)
	scale float64
}

// statusMetrics is the fixed set of thresholds that gate run status.
// Summary latencies are in seconds while thresholds are in
// nanoseconds.
var statusMetrics = map[string]statusMetric{
	"latency/fork_choice_updated": {func(r *Result) (float64, bool) {
		if r.SequencerMetrics == nil {
			return 0, false
		}
		return r.SequencerMetrics.ForkChoiceUpdated, true
	}, 1e9},
	"latency/get_payload": {func(r *Result) (float64, bool) {
		if r.SequencerMetrics == nil {
			return 0, false
		}
		return r.SequencerMetrics.GetPayload, true
	}, 1e9},
	"latency/new_payload": {func(r *Result) (float64, bool) {
		if r.ValidatorMetrics == nil {
			return 0, false
		}
		return r.ValidatorMetrics.NewPayload, true
	}, 1e9},
}

// StatusOf computes the status of r.
func StatusOf(r *Run) Status {
	if r.Result == nil || !r.Result.Complete {
		return StatusIncomplete
	}
	if !r.Result.Success {
		return StatusError
	}
	if r.Thresholds != nil {
		if exceeds(r.Result, r.Thresholds.Error) {
			return StatusError
		}
		if exceeds(r.Result, r.Thresholds.Warning) {
			return StatusWarning
		}
	}
	return StatusSuccess
}

// exceeds reports whether any status metric of res is above its
// limit in thresholds. Metrics outside statusMetrics are ignored.
func exceeds(res *Result, thresholds map[string]float64) bool {
	for metric, limit := range thresholds {
		sm, ok := statusMetrics[metric]
		if !ok {
			continue
		}
		v, ok := sm.get(res)
		if !ok {
			continue
		}
		if v*sm.scale > limit {
			return true
		}
	}
	return false
}

// StatusCounts tallies the statuses of a set of runs.
type StatusCounts map[Status]int

// CountStatuses returns the status tally of runs.
func CountStatuses(runs []Run) StatusCounts {
	c := make(StatusCounts)
	for i := range runs {
		c[StatusOf(&runs[i])]++
	}
	return c
}
