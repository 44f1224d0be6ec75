// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	test := func(val float64, unit Unit, want string) {
		t.Helper()
		got := Format(val, unit)
		if got != want {
			t.Errorf("for %v %s, got %q, want %q", val, unit, got, want)
		}
	}

	test(1.2e9, Gas, "1.2 Ggas")
	test(500, Gas, "500.0 gas")
	test(-2e6, GasPerSecond, "-2.0 Mgas/s")
	test(0, Gas, "0 gas")
	test(0, Milliseconds, "0 s")

	test(350000, Nanoseconds, "350.0 µs")
	test(2.5, Seconds, "2.5 s")
	test(12, Milliseconds, "12.0 ms")
	// Below the smallest prefix.
	test(0.5, Nanoseconds, "0.5 ns")

	test(1536, Bytes, "1.5 KiB")
	test(3*(1<<30), Bytes, "3.0 GiB")
	test(100, Bytes, "100.0 B")

	test(12345.6789, Count, "12,345.679")
	test(1000, Count, "1,000")
	test(-1234.5, Count, "-1,234.5")
	test(12, Count, "12")

	test(42, Blocks, "42")
	test(1.5, "", "1.5")
	test(math.NaN(), Gas, "NaN")
}

func TestScalerFor(t *testing.T) {
	test := func(val float64, cls Class, factor float64, prefix string) {
		t.Helper()
		s := ScalerFor(val, cls)
		if s.Factor != factor || s.Prefix != prefix {
			t.Errorf("for %v %s, got %v %q, want %v %q", val, cls, s.Factor, s.Prefix, factor, prefix)
		}
	}
	test(999, Decimal, 1, "")
	test(1000, Decimal, 1e3, "k")
	test(math.Nextafter(1e6, 0), Decimal, 1e3, "k")
	test(5e30, Decimal, 1e24, "Y")
	test(0.001, Decimal, 1, "")
	test(1023, Binary, 1, "")
	test(1024, Binary, 1024, "Ki")
	test(0.5, Time, 1, "n")
	test(1e9, Time, 1e9, "")
	test(7, Plain, 1, "")
}

func TestScalerFormat(t *testing.T) {
	s := Scaler{Prec: 1, Factor: 1e9, Prefix: "G"}
	if got, want := s.Format(1234567890), "1.2G"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTitleCase(t *testing.T) {
	for in, want := range map[string]string{
		"GasLimit":  "Gas Limit",
		"node_type": "Node Type",
		"tx-count":  "Tx Count",
		"role":      "Role",
		"":          "",
	} {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	short := "a short label"
	if got := Label(short); got != short {
		t.Errorf("Label(%q) = %q", short, got)
	}
	long := ""
	for i := 0; i < 60; i++ {
		long += "x"
	}
	got := Label(long)
	if len(got) != MaxLabelLen+3 || got[MaxLabelLen:] != "..." {
		t.Errorf("Label(long) = %q", got)
	}
}
