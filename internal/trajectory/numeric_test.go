package trajectory

import (
	"testing"

	"github.com/segmentio/encoding/json"
)

func TestParseNumericOrZero(t *testing.T) {
	cases := []struct {
		raw      string
		expected float64
	}{
		{``, 0},
		{`null`, 0},
		{`2.5`, 2.5},
		{`-1`, -1},
		{`1e3`, 1000},
		{`"0.01"`, 0.01},
		{`"  7 "`, 7},
		{`"$0.01"`, 0},
		{`"not a number"`, 0},
		{`""`, 0},
		{`"NaN"`, 0},
		{`"Inf"`, 0},
		{`true`, 0},
		{`{"value":1}`, 0},
		{`[1]`, 0},
	}

	for _, tc := range cases {
		got := ParseNumericOrZero(json.RawMessage(tc.raw))
		if got != tc.expected {
			t.Errorf("ParseNumericOrZero(%s) = %v, want %v", tc.raw, got, tc.expected)
		}
	}
}

func TestParseIntOrZero(t *testing.T) {
	cases := []struct {
		raw      string
		expected int
	}{
		{``, 0},
		{`1200`, 1200},
		{`12.9`, 12},
		{`"345"`, 345},
		{`" 8 "`, 8},
		{`"12.5"`, 0},
		{`"many"`, 0},
		{`false`, 0},
		{`1e300`, 0},
	}

	for _, tc := range cases {
		got := ParseIntOrZero(json.RawMessage(tc.raw))
		if got != tc.expected {
			t.Errorf("ParseIntOrZero(%s) = %d, want %d", tc.raw, got, tc.expected)
		}
	}
}
