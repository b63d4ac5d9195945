// internal/service/recommend/recommender.go

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"baro/internal/domain/facility"
	"baro/internal/domain/geo"
	"baro/internal/domain/profile"
	"baro/internal/domain/sport"
)

// DefaultLimit is the number of facilities returned when neither the caller
// nor the configuration asks for a specific count.
const DefaultLimit = 5

// Config contains configuration for the facility recommender.
type Config struct {
	// DefaultLimit applies when the request carries no limit.
	DefaultLimit int

	// MaxDistanceKm is where the distance sub-score decays to zero.
	MaxDistanceKm float64
}

// FacilityRecommender implements the facility.Recommender interface by
// fusing distance, weather gating, stated preference, demographic preference
// and intensity match into one composite score per facility.
type FacilityRecommender struct {
	facilities  facility.Provider
	intensities facility.IntensityProvider
	preferences facility.PreferenceProvider
	weather     facility.WeatherGate
	config      Config
}

// NewFacilityRecommender creates a new facility recommender.
func NewFacilityRecommender(
	facilities facility.Provider,
	intensities facility.IntensityProvider,
	preferences facility.PreferenceProvider,
	weather facility.WeatherGate,
	config Config,
) *FacilityRecommender {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = DefaultLimit
	}
	if config.MaxDistanceKm <= 0 {
		config.MaxDistanceKm = facility.MaxDistanceKm
	}
	return &FacilityRecommender{
		facilities:  facilities,
		intensities: intensities,
		preferences: preferences,
		weather:     weather,
		config:      config,
	}
}

// Recommend scores and ranks facilities for the request. The collaborator
// fetches run concurrently; any fetch failure fails the whole call with no
// partial result.
func (r *FacilityRecommender) Recommend(ctx context.Context, req facility.Request) (*facility.Recommendation, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = r.config.DefaultLimit
	}

	var (
		records      []facility.Record
		intensityMap sport.IntensityMap
		prefSports   []string
		indoorOnly   bool

		wg      sync.WaitGroup
		errChan = make(chan error, 4)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := r.facilities.FetchAll(ctx)
		if err != nil {
			errChan <- fmt.Errorf("fetching facilities: %w", err)
			return
		}
		records = rows
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := r.intensities.FetchIntensities(ctx)
		if err != nil {
			errChan <- fmt.Errorf("fetching intensities: %w", err)
			return
		}
		intensityMap = sport.BuildIntensityMap(rows)
	}()

	if req.Profile.HasDemographics() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			band := profile.AgeBand(req.Profile.Age)
			lists, err := r.preferences.FetchPreferenceSports(ctx, band, req.Profile.Gender)
			if err != nil {
				errChan <- fmt.Errorf("fetching preference sports: %w", err)
				return
			}
			prefSports = flattenSportLists(lists)
		}()
	}

	if req.IndoorOnly != nil {
		indoorOnly = *req.IndoorOnly
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate, err := r.weather.IndoorOnly(ctx, req.Location)
			if err != nil {
				errChan <- fmt.Errorf("resolving weather gate: %w", err)
				return
			}
			indoorOnly = gate
		}()
	}

	wg.Wait()
	close(errChan)

	// First fetch error aborts the whole recommendation.
	if err := <-errChan; err != nil {
		return nil, err
	}

	log.Debug().
		Bool("indoor_only", indoorOnly).
		Int("facilities", len(records)).
		Int("pref_sports", len(prefSports)).
		Msg("scoring facilities")

	scored := scoreFacilities(records, req, indoorOnly, intensityMap, prefSports, r.config.MaxDistanceKm)

	// Ties keep fetch order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	return &facility.Recommendation{
		IndoorOnly: indoorOnly,
		Facilities: scored,
	}, nil
}

// scoreFacilities computes the six sub-scores and the weighted composite for
// every eligible facility. Rows with unparsable coordinates are skipped.
func scoreFacilities(
	records []facility.Record,
	req facility.Request,
	indoorOnly bool,
	intensityMap sport.IntensityMap,
	prefSports []string,
	maxDistanceKm float64,
) []facility.Scored {
	results := make([]facility.Scored, 0, len(records))

	for _, rec := range records {
		if indoorOnly && rec.InOut != facility.Indoor {
			continue
		}

		lat, err := strconv.ParseFloat(rec.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(rec.Lng, 64)
		if err != nil {
			continue
		}

		loc := geo.Point{Latitude: lat, Longitude: lng}
		distanceKm := geo.Distance(req.Location, loc)

		distScore := math.Max(0, (maxDistanceKm-distanceKm)/maxDistanceKm)

		prefScore := 0.0
		for _, sp := range req.Profile.PreferredSports {
			if sport.Matches(rec.SportType, sp) {
				prefScore = 1.0
				break
			}
		}

		// One demographic signal drives three separately weighted
		// sub-scores.
		demographicMatch := false
		for _, sp := range prefSports {
			if sport.Matches(rec.SportType, sp) {
				demographicMatch = true
				break
			}
		}
		ageScore, genderScore, ageSportsScore := 0.0, 0.0, 0.0
		if demographicMatch {
			ageScore, genderScore, ageSportsScore = 1.0, 1.0, 1.0
		}

		intensityScore := 0.0
		if req.Profile.PreferredIntensity != "" {
			if level, ok := intensityMap.IntensityFor(rec.SportType); ok && level == req.Profile.PreferredIntensity {
				intensityScore = 1.0
			}
		}

		total := facility.WeightDistance*distScore +
			facility.WeightPreferred*prefScore +
			facility.WeightAge*ageScore +
			facility.WeightGender*genderScore +
			facility.WeightIntensity*intensityScore +
			facility.WeightAgeSports*ageSportsScore

		results = append(results, facility.Scored{
			Record:     rec,
			Location:   loc,
			DistanceKm: geo.Round2(distanceKm),
			Score:      round3(total),
			Detail: facility.Breakdown{
				Distance:       round3(distScore),
				PreferredSport: prefScore,
				Age:            ageScore,
				Gender:         genderScore,
				Intensity:      intensityScore,
				AgeSports:      ageSportsScore,
			},
		})
	}

	return results
}

// flattenSportLists splits comma-joined preference rows into one
// deduplicated slice.
func flattenSportLists(lists []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, joined := range lists {
		for _, name := range sport.SplitList(joined) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
