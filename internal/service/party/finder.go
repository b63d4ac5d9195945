// internal/service/party/finder.go

package party

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"baro/internal/domain/geo"
	"baro/internal/domain/party"
)

// DefaultMaxDistanceKm bounds the proximity search when neither the caller
// nor the configuration supplies a radius.
const DefaultMaxDistanceKm = 5.0

// DefaultLimit is the number of parties returned when neither the caller nor
// the configuration asks for a specific count.
const DefaultLimit = 5

// FinderConfig contains configuration for the proximity finder.
type FinderConfig struct {
	// DefaultLimit applies when the caller passes no limit.
	DefaultLimit int

	// MaxDistanceKm applies when the caller passes no radius.
	MaxDistanceKm float64
}

// ProximityFinder implements party.Finder as a pure geo-filter over
// recruiting parties: distance only, no weighted scoring.
type ProximityFinder struct {
	provider party.Provider
	config   FinderConfig
}

// NewProximityFinder creates a new proximity finder.
func NewProximityFinder(provider party.Provider, config FinderConfig) *ProximityFinder {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = DefaultLimit
	}
	if config.MaxDistanceKm <= 0 {
		config.MaxDistanceKm = DefaultMaxDistanceKm
	}
	return &ProximityFinder{provider: provider, config: config}
}

// Nearby returns recruiting parties within maxDistanceKm of the location,
// nearest first. Rows with unparsable coordinates are skipped.
func (f *ProximityFinder) Nearby(
	ctx context.Context,
	location geo.Point,
	maxDistanceKm float64,
	limit int,
) ([]party.Nearby, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = f.config.MaxDistanceKm
	}
	if limit <= 0 {
		limit = f.config.DefaultLimit
	}

	records, err := f.provider.FetchRecruiting(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching recruiting parties: %w", err)
	}

	results := make([]party.Nearby, 0, len(records))
	for _, rec := range records {
		lat, err := strconv.ParseFloat(rec.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(rec.Lng, 64)
		if err != nil {
			continue
		}

		loc := geo.Point{Latitude: lat, Longitude: lng}
		distanceKm := geo.Distance(location, loc)
		if distanceKm > maxDistanceKm {
			continue
		}

		results = append(results, party.Nearby{
			Record:     rec,
			Location:   loc,
			DistanceKm: geo.Round2(distanceKm),
		})
	}

	// Ties keep fetch order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
