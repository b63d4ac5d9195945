// internal/adapter/weather/gate.go

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"baro/internal/domain/geo"
)

// Config contains configuration for the weather gate.
type Config struct {
	BaseURL         string
	RequestTimeout  time.Duration
	MaxPrecipMm     float64 // precipitation at or above this forces indoor
	MinTemperatureC float64
	MaxTemperatureC float64
}

// Gate resolves the indoor-only decision from a forecast endpoint. A fetch
// failure is a collaborator failure: the caller's whole call fails, there is
// no cached or degraded fallback.
type Gate struct {
	client *http.Client
	config Config
}

// NewGate creates a new weather gate.
func NewGate(config Config) *Gate {
	return &Gate{
		client: &http.Client{Timeout: config.RequestTimeout},
		config: config,
	}
}

// currentConditions is the subset of the forecast response the gate reads.
type currentConditions struct {
	Current struct {
		TemperatureC  float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

// IndoorOnly reports whether current weather at the location restricts
// recommendations to indoor facilities.
func (g *Gate) IndoorOnly(ctx context.Context, location geo.Point) (bool, error) {
	endpoint, err := url.Parse(g.config.BaseURL)
	if err != nil {
		return false, fmt.Errorf("invalid weather endpoint: %w", err)
	}

	params := endpoint.Query()
	params.Set("latitude", strconv.FormatFloat(location.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(location.Longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,precipitation,weather_code")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("weather endpoint returned %d", resp.StatusCode)
	}

	var conditions currentConditions
	if err := json.NewDecoder(resp.Body).Decode(&conditions); err != nil {
		return false, fmt.Errorf("decoding weather response: %w", err)
	}

	indoorOnly := g.decide(conditions)

	log.Debug().
		Float64("temp_c", conditions.Current.TemperatureC).
		Float64("precip_mm", conditions.Current.Precipitation).
		Int("weather_code", conditions.Current.WeatherCode).
		Bool("indoor_only", indoorOnly).
		Msg("weather gate resolved")

	return indoorOnly, nil
}

// decide applies the indoor-only rules to the observed conditions.
func (g *Gate) decide(c currentConditions) bool {
	if c.Current.Precipitation >= g.config.MaxPrecipMm {
		return true
	}
	// WMO codes 51 and above cover drizzle, rain, snow and storms.
	if c.Current.WeatherCode >= 51 {
		return true
	}
	if c.Current.TemperatureC < g.config.MinTemperatureC || c.Current.TemperatureC > g.config.MaxTemperatureC {
		return true
	}
	return false
}
