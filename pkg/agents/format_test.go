package agents

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Package-level so the sum is computed in float64 at run time.
var tenth, fifth = 0.1, 0.2

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5.0"},
		{7, "7.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{-2, "-2.0"},
		{3.75, "3.75"},
		{tenth + fifth, "0.30000000000000004"},
		{1234567, "1234567.0"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{1.5e-5, "1.5e-05"},
		{0.0001, "0.0001"},
		{1e100, "1e+100"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestFormatNumber_RoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := rapid.Float64().Filter(func(f float64) bool {
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}).Draw(t, "f")

		got, err := strconv.ParseFloat(FormatNumber(f), 64)
		if err != nil {
			t.Fatalf("FormatNumber(%v) = %q does not parse: %v", f, FormatNumber(f), err)
		}
		if got != f {
			t.Fatalf("FormatNumber(%v) read back as %v", f, got)
		}
	})
}
