// Package enrich maps coordinate rows to counties and assembles the output table.
package enrich

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/county-enrich/internal/resilience"
	"github.com/sells-group/county-enrich/pkg/nominatim"
)

// Sentinel county values written in place of a resolved name.
const (
	CountyInvalid  = "Invalid Coordinates"
	CountyNotFound = "County not found"
	CountyTimedOut = "Timed out"
)

// Geocoder is the reverse-geocoding capability the resolver needs.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*nominatim.Place, error)
}

// Resolver resolves decimal coordinates to county names with a fixed
// single-retry policy. Expected failure modes become sentinel strings;
// anything unexpected is returned as an error and aborts the run.
type Resolver struct {
	geocoder Geocoder
	retry    resilience.RetryConfig
}

// NewResolver creates a Resolver around the given geocoder.
func NewResolver(geocoder Geocoder, retry resilience.RetryConfig) *Resolver {
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("nominatim", "reverse")
	}
	return &Resolver{geocoder: geocoder, retry: retry}
}

// ResolveCounty maps a coordinate pair to a county name or sentinel.
// NaN inputs short-circuit to Invalid Coordinates without a network call.
func (r *Resolver) ResolveCounty(ctx context.Context, lat, lon float64) (string, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return CountyInvalid, nil
	}

	place, err := resilience.DoVal(ctx, r.retry, func(ctx context.Context) (*nominatim.Place, error) {
		return r.geocoder.Reverse(ctx, lat, lon)
	})
	if err != nil {
		if resilience.IsTransient(err) {
			zap.L().Warn("reverse geocode gave up after retry",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Error(err),
			)
			return CountyTimedOut, nil
		}
		return "", eris.Wrap(err, "enrich: resolve county")
	}

	if !place.Found || place.Address.County == "" {
		return CountyNotFound, nil
	}
	return place.Address.County, nil
}
