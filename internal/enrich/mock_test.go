package enrich

import (
	"context"
	"errors"
	"math"

	"github.com/sells-group/county-enrich/internal/resilience"
	"github.com/sells-group/county-enrich/pkg/nominatim"
)

// scriptedGeocoder replays a fixed sequence of responses, one per call.
type scriptedGeocoder struct {
	script []func() (*nominatim.Place, error)
	calls  int
}

func (g *scriptedGeocoder) Reverse(_ context.Context, _, _ float64) (*nominatim.Place, error) {
	if g.calls >= len(g.script) {
		return nil, errors.New("scripted geocoder: unexpected extra call")
	}
	step := g.script[g.calls]
	g.calls++
	return step()
}

func scriptOf(steps ...func() (*nominatim.Place, error)) []func() (*nominatim.Place, error) {
	return steps
}

func failWith(err error) func() (*nominatim.Place, error) {
	return func() (*nominatim.Place, error) { return nil, err }
}

func countyHit(name string) func() (*nominatim.Place, error) {
	return func() (*nominatim.Place, error) {
		return &nominatim.Place{
			Found:   true,
			Address: nominatim.Address{County: name},
		}, nil
	}
}

func noCounty() (*nominatim.Place, error) {
	return &nominatim.Place{Found: true, Address: nominatim.Address{Country: "Ireland"}}, nil
}

func notFound() (*nominatim.Place, error) {
	return &nominatim.Place{Found: false}, nil
}

func timeout() (*nominatim.Place, error) {
	return nil, resilience.NewTransientError(errors.New("i/o timeout"), 0)
}

func unavailable() (*nominatim.Place, error) {
	return nil, resilience.NewTransientError(errors.New("service unavailable"), 503)
}

// geocoderByCoord routes lookups by latitude so table tests can give each
// row its own behavior.
type geocoderByCoord struct {
	byLat map[float64]*scriptedGeocoder
}

func (g *geocoderByCoord) Reverse(ctx context.Context, lat, lon float64) (*nominatim.Place, error) {
	sg, ok := g.byLat[math.Trunc(lat)]
	if !ok {
		return nil, errors.New("geocoderByCoord: unexpected coordinate")
	}
	return sg.Reverse(ctx, lat, lon)
}
