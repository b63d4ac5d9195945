// internal/adapter/weather/gate_test.go

package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"baro/internal/domain/geo"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		RequestTimeout:  2 * time.Second,
		MaxPrecipMm:     1.0,
		MinTemperatureC: -10.0,
		MaxTemperatureC: 35.0,
	}
}

func forecastServer(t *testing.T, tempC, precip float64, code int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("longitude") == "" {
			t.Errorf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"current":{"temperature_2m":%v,"precipitation":%v,"weather_code":%d}}`, tempC, precip, code)
	}))
}

func TestIndoorOnlyDecision(t *testing.T) {
	tests := []struct {
		name   string
		tempC  float64
		precip float64
		code   int
		want   bool
	}{
		{name: "clear mild day", tempC: 21.0, precip: 0.0, code: 0, want: false},
		{name: "precipitation at threshold", tempC: 21.0, precip: 1.0, code: 0, want: true},
		{name: "rain code", tempC: 21.0, precip: 0.0, code: 61, want: true},
		{name: "drizzle code boundary", tempC: 21.0, precip: 0.0, code: 51, want: true},
		{name: "overcast below rain codes", tempC: 21.0, precip: 0.0, code: 3, want: false},
		{name: "too cold", tempC: -15.0, precip: 0.0, code: 0, want: true},
		{name: "too hot", tempC: 38.0, precip: 0.0, code: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := forecastServer(t, tt.tempC, tt.precip, tt.code)
			defer srv.Close()

			gate := NewGate(testConfig(srv.URL))
			got, err := gate.IndoorOnly(context.Background(), geo.Point{Latitude: 37.5, Longitude: 127.1})
			if err != nil {
				t.Fatalf("IndoorOnly: %v", err)
			}
			if got != tt.want {
				t.Errorf("IndoorOnly = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndoorOnlyEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gate := NewGate(testConfig(srv.URL))
	if _, err := gate.IndoorOnly(context.Background(), geo.Point{Latitude: 37.5, Longitude: 127.1}); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

func TestIndoorOnlyUnreachableEndpoint(t *testing.T) {
	gate := NewGate(testConfig("http://127.0.0.1:1"))
	if _, err := gate.IndoorOnly(context.Background(), geo.Point{Latitude: 37.5, Longitude: 127.1}); err == nil {
		t.Fatal("expected error from unreachable endpoint")
	}
}
