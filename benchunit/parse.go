// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit formats benchmark metric values in their units and
// turns configuration keys into display labels.
package benchunit

import "fmt"

// A Unit is the unit a metric is reported in.
type Unit string

const (
	Nanoseconds  Unit = "ns"
	Microseconds Unit = "us"
	Milliseconds Unit = "ms"
	Seconds      Unit = "s"
	Bytes        Unit = "bytes"
	Gas          Unit = "gas"
	GasPerSecond Unit = "gas/s"
	Count        Unit = "count"
	Blocks       Unit = "blocks"
)

// A Class specifies what class of unit prefixes are in use.
type Class int

const (
	// Plain indicates values are printed without a prefix.
	Plain Class = iota
	// Decimal indicates values of a given unit should be scaled
	// by powers of 1000. Decimal units use the International
	// System of Units SI prefixes, such as "k", and "M".
	Decimal
	// Binary indicates values of a given unit should be scaled by
	// powers of 1024. Binary units use the International
	// Electrotechnical Commission (IEC) binary prefixes, such as
	// "Ki" and "Mi".
	Binary
	// Time indicates durations, scaled between nanoseconds and
	// seconds.
	Time
	// Grouped indicates counts printed with thousands separators.
	Grouped
)

func (c Class) String() string {
	switch c {
	case Plain:
		return "Plain"
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	case Time:
		return "Time"
	case Grouped:
		return "Grouped"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ClassOf returns the Class of unit.
func ClassOf(unit Unit) Class {
	switch unit {
	case Nanoseconds, Microseconds, Milliseconds, Seconds:
		return Time
	case Bytes:
		return Binary
	case Gas, GasPerSecond:
		return Decimal
	case Count:
		return Grouped
	}
	return Plain
}

// ParseUnit returns the Unit named by s and whether s is a known unit.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(s)
	switch u {
	case Nanoseconds, Microseconds, Milliseconds, Seconds, Bytes, Gas, GasPerSecond, Count, Blocks:
		return u, true
	}
	return u, false
}
