package dms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_NorthEast(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{`51°30'26"N`, 51 + 30.0/60 + 26.0/3600},
		{`0°7'39"E`, 7.0/60 + 39.0/3600},
		{`40° 26' 46" N`, 40 + 26.0/60 + 46.0/3600},
		{`90°0'0"N`, 90},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, Parse(tt.input), 1e-9, "input %q", tt.input)
	}
}

func TestParse_SouthWestNegated(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{`33°51'54"S`, -(33 + 51.0/60 + 54.0/3600)},
		{`151°12'34"W`, -(151 + 12.0/60 + 34.0/3600)},
		{`10°0'0"s`, -10}, // lowercase hemisphere accepted
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, Parse(tt.input), 1e-9, "input %q", tt.input)
	}
}

func TestParse_MalformedYieldsNaN(t *testing.T) {
	inputs := []string{
		"abc",
		"",
		"51.5074",       // already decimal
		`51°30'N`,       // three parts
		`51°30'26"12"N`, // five parts
		`abc°def'ghi"N`, // non-numeric components
		`51°xx'26"N`,    // one non-numeric component
	}
	for _, in := range inputs {
		assert.True(t, math.IsNaN(Parse(in)), "input %q should be NaN", in)
	}
}

func TestParse_MarkerRunsCollapse(t *testing.T) {
	// Consecutive marker characters act as a single delimiter.
	got := Parse(`51°°30''26""N`)
	assert.InDelta(t, 51+30.0/60+26.0/3600, got, 1e-9)
}

func TestParseLatitude_RangeCheck(t *testing.T) {
	assert.True(t, math.IsNaN(ParseLatitude(`91°0'0"N`)))
	assert.True(t, math.IsNaN(ParseLatitude(`100°30'0"S`)))
	assert.InDelta(t, 90.0, ParseLatitude(`90°0'0"N`), 1e-9)
}

func TestParseLongitude_RangeCheck(t *testing.T) {
	assert.True(t, math.IsNaN(ParseLongitude(`181°0'0"E`)))
	assert.InDelta(t, -180.0, ParseLongitude(`180°0'0"W`), 1e-9)
	assert.InDelta(t, 151.2, ParseLongitude(`151°12'0"E`), 1e-9)
}
