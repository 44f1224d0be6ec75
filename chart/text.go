// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextWidth estimates the rendered width in pixels of s set in a
// sans-serif font of the given pixel size. Widths are measured with a
// fixed 7x13 face and scaled to size.
func TextWidth(s string, size float64) float64 {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	return float64(w) * size / float64(face.Height)
}
