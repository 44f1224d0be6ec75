// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/base/benchreport/benchrun"
)

// Variables returns, for every configuration key whose values differ
// across runs, the distinct values of that key sorted by their string
// form.
//
// Values are compared by their string form, so 1 and "1" are the same
// value. The first value seen for each string form is the one
// returned.
func Variables(runs []benchrun.Run) map[string][]interface{} {
	strs := make(map[string][]string)
	first := make(map[string]map[string]interface{})
	for _, r := range runs {
		for k, v := range r.TestConfig {
			s := benchrun.ValueString(v)
			if first[k] == nil {
				first[k] = make(map[string]interface{})
			}
			if _, ok := first[k][s]; !ok {
				first[k][s] = v
			}
			strs[k] = append(strs[k], s)
		}
	}

	out := make(map[string][]interface{})
	for k, ss := range strs {
		distinct := slice.Nub(ss).([]string)
		if len(distinct) <= 1 {
			continue
		}
		slice.Sort(distinct)
		vals := make([]interface{}, len(distinct))
		for i, s := range distinct {
			vals[i] = first[k][s]
		}
		out[k] = vals
	}
	return out
}

// Keys returns the keys of vars in sorted order.
func Keys(vars map[string][]interface{}) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
