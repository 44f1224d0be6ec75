// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"github.com/base/benchreport/benchrun"
)

// A Filter is a conjunction of equality constraints on run
// configuration. A run matches if, for every key in the filter, the
// string form of its configuration value equals the filter value. A
// run without a filtered key does not match.
type Filter map[string]string

// Match reports whether r satisfies every constraint in f.
func (f Filter) Match(r *benchrun.Run) bool {
	for k, want := range f {
		got, ok := r.Config(k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Apply returns the runs that match f, in order.
func (f Filter) Apply(runs []benchrun.Run) []benchrun.Run {
	var out []benchrun.Run
	for i := range runs {
		if f.Match(&runs[i]) {
			out = append(out, runs[i])
		}
	}
	return out
}

// any reports whether at least one run matches f.
func (f Filter) any(runs []benchrun.Run) bool {
	for i := range runs {
		if f.Match(&runs[i]) {
			return true
		}
	}
	return false
}

// without returns a copy of f with the given keys removed.
func (f Filter) without(keys ...string) Filter {
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Mode determines how variables without an explicit selection are
// treated by Resolve.
type Mode int

const (
	// First defaults an unselected variable to its first valid
	// value, so every variable is pinned and each series is
	// populated. Comparison views use First.
	First Mode = iota

	// Any leaves unselected variables unconstrained. Listing
	// views use Any.
	Any
)

func (m Mode) String() string {
	if m == Any {
		return "any"
	}
	return "first"
}

// A Resolution is the result of resolving a Selection against a set
// of runs.
type Resolution struct {
	// Variables are the varying configuration keys of the run set
	// and their sorted values.
	Variables map[string][]interface{}

	// Options are the values of each variable other than the
	// group-by key that match at least one run given the other
	// selected filters. Variables with no such value are omitted.
	Options map[string][]interface{}

	// Active is the filter that produced Matched.
	Active Filter

	// Matched are the runs that satisfy Active.
	Matched []benchrun.Run
}

// Resolve computes the filter options and the matched runs for sel.
// If vars is nil, it is computed with Variables.
//
// Options for a variable k are computed from the selected filters
// other than k and the group-by key, never from the matched runs, so
// a selection that matches nothing still offers a way back to a
// non-empty result. Resolve has no side effects.
func Resolve(runs []benchrun.Run, sel Selection, vars map[string][]interface{}, mode Mode) *Resolution {
	if vars == nil {
		vars = Variables(runs)
	}
	params := Filter(sel.Params)

	opts := make(map[string][]interface{})
	for k, values := range vars {
		if k == sel.ByMetric {
			continue
		}
		others := params.without(k, sel.ByMetric)
		var valid []interface{}
		for _, v := range values {
			others[k] = benchrun.ValueString(v)
			if others.any(runs) {
				valid = append(valid, v)
			}
		}
		if len(valid) > 0 {
			opts[k] = valid
		}
	}

	active := make(Filter)
	for k, values := range opts {
		if v, ok := sel.Params[k]; ok {
			active[k] = v
		} else if mode == First {
			active[k] = benchrun.ValueString(values[0])
		}
	}

	return &Resolution{
		Variables: vars,
		Options:   opts,
		Active:    active,
		Matched:   active.Apply(runs),
	}
}

// Selected returns the active value of variable k, or "" if k is
// unconstrained.
func (r *Resolution) Selected(k string) string {
	return r.Active[k]
}
