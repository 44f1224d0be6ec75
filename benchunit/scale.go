// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"strconv"
	"strings"
)

// A Scaler represents a scaling factor for a number and
// its scientific representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix ("k", "M", "Ki", etc)
}

// Format formats val and appends the unit prefix according to the
// given scale. For example, a Scaler with factor 1e9 and prefix "G"
// formats 1234567890 as "1.2G".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

type factor struct {
	factor float64
	prefix string
}

// Factor tables, largest first.
var (
	siFactors = []factor{
		{1e24, "Y"}, {1e21, "Z"}, {1e18, "E"}, {1e15, "P"},
		{1e12, "T"}, {1e9, "G"}, {1e6, "M"}, {1e3, "k"}, {1, ""},
	}
	iecFactors = mkIECFactors()
	// timeFactors are relative to nanoseconds.
	timePrefixes = []factor{{1e9, ""}, {1e6, "m"}, {1e3, "µ"}, {1, "n"}}
)

func mkIECFactors() []factor {
	var factors []factor
	exp := 80
	for _, p := range []string{"Yi", "Zi", "Ei", "Pi", "Ti", "Gi", "Mi", "Ki", ""} {
		factors = append(factors, factor{math.Pow(2, float64(exp)), p})
		exp -= 10
	}
	return factors
}

// ScalerFor returns the Scaler that formats val in class cls with one
// digit after the decimal point: the largest prefix whose factor does
// not exceed |val|. Values below the smallest factor use the smallest
// one.
func ScalerFor(val float64, cls Class) Scaler {
	var factors []factor
	switch cls {
	case Decimal:
		factors = siFactors
	case Binary:
		factors = iecFactors
	case Time:
		factors = timePrefixes
	default:
		return Scaler{1, 1, ""}
	}
	abs := math.Abs(val)
	for _, f := range factors {
		if abs >= f.factor {
			return Scaler{1, f.factor, f.prefix}
		}
	}
	f := factors[len(factors)-1]
	return Scaler{1, f.factor, f.prefix}
}

// Format formats value in unit for display, for example "1.2 Ggas",
// "350.0 µs" or "12,345". Zero prints as "0" followed by the unit
// symbol. NaN and values in unknown units print as plain numbers.
func Format(value float64, unit Unit) string {
	if unit == "" || math.IsNaN(value) || math.IsInf(value, 0) {
		return plain(value)
	}
	cls := ClassOf(unit)
	switch cls {
	case Plain:
		return plain(value)
	case Grouped:
		return grouped(value)
	}
	v, sym := Tidy(value, unit)
	if v == 0 {
		return "0 " + sym
	}
	sc := ScalerFor(v, cls)
	return strconv.FormatFloat(v/sc.Factor, 'f', sc.Prec, 64) + " " + sc.Prefix + sym
}

// FormatString is like Format but takes the unit by name.
func FormatString(value float64, unit string) string {
	return Format(value, Unit(unit))
}

func plain(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// grouped formats v with at most three fraction digits and commas
// between groups of three integer digits.
func grouped(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], strings.TrimRight(s[i+1:], "0")
	}
	var b strings.Builder
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	out := b.String()
	if out == "-0" {
		return "0"
	}
	return out
}
