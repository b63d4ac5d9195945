// internal/domain/facility/facility.go

package facility

import (
	"context"

	"baro/internal/domain/geo"
	"baro/internal/domain/profile"
	"baro/internal/domain/sport"
)

// Indoor/outdoor flag values as stored in the facility table.
const (
	Indoor  = "실내"
	Outdoor = "실외"
)

// Composite score weights. They deliberately sum to 0.90, not 1.0 - the
// ranking was tuned against these constants, so they must not be
// renormalized.
const (
	WeightDistance  = 0.20
	WeightPreferred = 0.20
	WeightAge       = 0.20
	WeightGender    = 0.20
	WeightIntensity = 0.05
	WeightAgeSports = 0.05
)

// MaxDistanceKm is where the distance sub-score decays to zero. Facilities
// farther than this still rank, they just score 0 on distance.
const MaxDistanceKm = 5.0

// Record is one facility row as delivered by the facility collaborator.
// Coordinates arrive as raw strings; rows whose coordinates do not parse are
// skipped during scoring rather than failing the call.
type Record struct {
	Code      string `json:"faciCd"`
	Name      string `json:"faciNm"`
	Address   string `json:"faciAddr"`
	SportType string `json:"ftypeNm"`
	InOut     string `json:"inoutGbnNm"`
	Lat       string `json:"-"`
	Lng       string `json:"-"`
}

// Breakdown holds the six component sub-scores, each in [0,1]. All are
// either 0 or 1 except distance, which is continuous.
type Breakdown struct {
	Distance       float64 `json:"distance"`
	PreferredSport float64 `json:"preferred_sport"`
	Age            float64 `json:"age"`
	Gender         float64 `json:"gender"`
	Intensity      float64 `json:"intensity"`
	AgeSports      float64 `json:"age_sports"`
}

// Scored is a facility with its computed distance and composite score.
type Scored struct {
	Record
	Location   geo.Point `json:"location"`
	DistanceKm float64   `json:"distanceKm"`
	Score      float64   `json:"score"`
	Detail     Breakdown `json:"detailScores"`
}

// Recommendation is the result of one recommendation call, including the
// indoor-only gate actually applied.
type Recommendation struct {
	IndoorOnly bool     `json:"indoorOnly"`
	Facilities []Scored `json:"facilities"`
}

// Request carries the inputs for one recommendation call. IndoorOnly pins
// the weather gate when set; when nil the gate is resolved from the weather
// collaborator.
type Request struct {
	Location   geo.Point
	Profile    profile.Profile
	Limit      int
	IndoorOnly *bool
}

// Provider fetches facility rows from the external store.
type Provider interface {
	// FetchAll returns every facility row. Called fresh on every
	// recommendation; no caching is assumed.
	FetchAll(ctx context.Context) ([]Record, error)
}

// IntensityProvider fetches sport→intensity pairs.
type IntensityProvider interface {
	FetchIntensities(ctx context.Context) ([]sport.IntensityRow, error)
}

// PreferenceProvider fetches the preferred-sport lists for an age band and
// gender. Each returned string may be a comma-joined list.
type PreferenceProvider interface {
	FetchPreferenceSports(ctx context.Context, ageBand, gender string) ([]string, error)
}

// WeatherGate resolves whether current weather restricts recommendations to
// indoor facilities.
type WeatherGate interface {
	IndoorOnly(ctx context.Context, location geo.Point) (bool, error)
}

// Recommender ranks facilities for a user.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (*Recommendation, error)
}
