// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

// timeFactors maps time units to nanoseconds.
var timeFactors = map[Unit]float64{
	Nanoseconds:  1,
	Microseconds: 1e3,
	Milliseconds: 1e6,
	Seconds:      1e9,
}

// Tidy normalizes a value in unit into the base unit of its class.
// Durations are converted to nanoseconds, the base the time prefixes
// are defined in, and bytes are rendered with a "B" symbol. It
// returns the re-scaled value and the symbol to append after the
// prefix.
func Tidy(value float64, unit Unit) (tidiedValue float64, symbol string) {
	switch ClassOf(unit) {
	case Time:
		return value * timeFactors[unit], "s"
	case Binary:
		return value, "B"
	}
	return value, string(unit)
}
