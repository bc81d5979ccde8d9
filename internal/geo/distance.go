// internal/geo/distance.go
package geo

import (
	"context"
	"fmt"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/shipwise/allocator/internal/cache"
)

// DefaultFallbackMiles is used when an address pair cannot be resolved.
const DefaultFallbackMiles = 500.0

const earthRadiusMiles = 3958.8

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves an opaque address string to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// StaticGeocoder resolves addresses from a fixed table. Snapshot inputs carry
// their coordinates pre-resolved, so no network geocoding happens here.
type StaticGeocoder map[string]Coordinates

func (g StaticGeocoder) Geocode(_ context.Context, address string) (Coordinates, error) {
	c, ok := g[address]
	if !ok {
		return Coordinates{}, fmt.Errorf("no coordinates for address %q", address)
	}
	return c, nil
}

// Haversine returns the great-circle distance between two points in miles.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Resolver turns an address pair into a distance in miles, memoizing results
// by address pair. Resolution failures degrade to the fallback distance
// rather than erroring: a missing distance is never fatal to planning.
type Resolver struct {
	geocoder      Geocoder
	shared        cache.DistanceCache
	memo          *gocache.Cache
	fallbackMiles float64
}

// NewResolver creates a Resolver. shared may be nil, in which case only the
// in-process memo is used.
func NewResolver(geocoder Geocoder, shared cache.DistanceCache, fallbackMiles float64) *Resolver {
	if shared == nil {
		shared = cache.NewNoopDistanceCache()
	}
	if fallbackMiles <= 0 {
		fallbackMiles = DefaultFallbackMiles
	}
	return &Resolver{
		geocoder:      geocoder,
		shared:        shared,
		memo:          gocache.New(24*time.Hour, time.Hour),
		fallbackMiles: fallbackMiles,
	}
}

// Distance resolves the distance in miles between two addresses.
func (r *Resolver) Distance(ctx context.Context, from, to string) float64 {
	key := from + "|" + to

	if v, ok := r.memo.Get(key); ok {
		return v.(float64)
	}

	if miles, ok, err := r.shared.Get(ctx, from, to); err == nil && ok {
		r.memo.Set(key, miles, gocache.DefaultExpiration)
		return miles
	} else if err != nil {
		log.Warn().Err(err).Msg("geo: shared distance cache get failed")
	}

	miles := r.resolve(ctx, from, to)

	r.memo.Set(key, miles, gocache.DefaultExpiration)
	if err := r.shared.Set(ctx, from, to, miles); err != nil {
		log.Warn().Err(err).Msg("geo: shared distance cache set failed")
	}

	return miles
}

func (r *Resolver) resolve(ctx context.Context, from, to string) float64 {
	a, err := r.geocoder.Geocode(ctx, from)
	if err != nil {
		log.Warn().Str("address", from).Err(err).Msg("geo: geocoding failed, using fallback distance")
		return r.fallbackMiles
	}
	b, err := r.geocoder.Geocode(ctx, to)
	if err != nil {
		log.Warn().Str("address", to).Err(err).Msg("geo: geocoding failed, using fallback distance")
		return r.fallbackMiles
	}
	return Haversine(a, b)
}
