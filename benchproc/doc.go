// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc provides tools for filtering and grouping
// benchmark runs by their configuration.
//
// The typical steps for selecting runs are:
//
// 1. Compute the variables of a run set with Variables. A variable is
// a configuration key with at least two distinct values across the
// set; keys with a single value carry no information and are never
// offered as filters.
//
// 2. Pick a Selection: per-variable filter values plus the variable
// that splits the selected runs into series (the "group-by" key).
// Selections round-trip through URLs with EncodeSelection and
// DecodeSelection.
//
// 3. Resolve the Selection against the runs. Resolve computes, for
// each variable other than the group-by key, the values that still
// match at least one run given the other filters, then applies the
// active filters to produce the matched runs. Option lists are
// computed independently of the variable's own value, so changing
// one filter never leaves another variable without options while any
// combination for it exists.
package benchproc
