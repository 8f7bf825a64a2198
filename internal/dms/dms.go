// Package dms converts Degrees-Minutes-Seconds coordinate text to decimal degrees.
package dms

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// markers matches any run of the DMS delimiter characters (degree, minute, second).
var markers = regexp.MustCompile(`[°'"]+`)

// Parse converts a DMS string like `51°30'26"N` to signed decimal degrees.
// Malformed input yields NaN rather than an error: the caller treats NaN as
// a missing coordinate.
func Parse(text string) float64 {
	parts := markers.Split(strings.TrimSpace(text), -1)
	if len(parts) != 4 {
		return math.NaN()
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return math.NaN()
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return math.NaN()
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return math.NaN()
	}

	decimal := deg + min/60 + sec/3600

	switch strings.ToUpper(strings.TrimSpace(parts[3])) {
	case "S", "W":
		decimal = -decimal
	}

	return decimal
}

// ParseLatitude parses a DMS latitude and rejects values outside [-90, 90].
func ParseLatitude(text string) float64 {
	v := Parse(text)
	if v < -90 || v > 90 {
		return math.NaN()
	}
	return v
}

// ParseLongitude parses a DMS longitude and rejects values outside [-180, 180].
func ParseLongitude(text string) float64 {
	v := Parse(text)
	if v < -180 || v > 180 {
		return math.NaN()
	}
	return v
}
