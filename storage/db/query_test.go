// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitQueryWords(t *testing.T) {
	for _, test := range []struct {
		q    string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"hello\\ world", []string{"hello world"}},
		{`"key:value two" and\ more`, []string{"key:value two", "and more"}},
		{`one" two"\ three four`, []string{"one two three", "four"}},
		{`"4'7\""`, []string{`4'7"`}},
		{`testName:"transfer only" GasLimit:30000000`, []string{"testName:transfer only", "GasLimit:30000000"}},
	} {
		if diff := cmp.Diff(test.want, splitQueryWords(test.q)); diff != "" {
			t.Errorf("splitQueryWords(%q) mismatch (-want +got):\n%s", test.q, diff)
		}
	}
}
