// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"strings"
	"unicode"
)

// MaxLabelLen is the longest label Label returns before truncating.
const MaxLabelLen = 50

// TitleCase turns a configuration key such as "GasLimit",
// "node_type" or "tx-count" into "Gas Limit", "Node Type" and
// "Tx Count".
func TitleCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
		case i > 0 && unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

// Label truncates s to MaxLabelLen runes, marking the cut with "...".
func Label(s string) string {
	rs := []rune(s)
	if len(rs) <= MaxLabelLen {
		return s
	}
	return string(rs[:MaxLabelLen]) + "..."
}
