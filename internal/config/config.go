// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Weather     WeatherConfig
	Recommend   RecommendConfig
	Party       PartyConfig
	Feedback    FeedbackConfig
	Chat        ChatConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// WeatherConfig holds weather gate configuration
type WeatherConfig struct {
	BaseURL         string
	RequestTimeout  time.Duration
	MaxPrecipMm     float64
	MinTemperatureC float64
	MaxTemperatureC float64
}

// RecommendConfig holds facility recommendation configuration
type RecommendConfig struct {
	DefaultLimit  int
	MaxDistanceKm float64
}

// PartyConfig holds party search configuration
type PartyConfig struct {
	DefaultLimit  int
	MaxDistanceKm float64
}

// FeedbackConfig holds feedback service configuration
type FeedbackConfig struct {
	EventsTopic string
	WindowDays  int
}

// ChatConfig holds party chat configuration
type ChatConfig struct {
	SubjectPrefix    string
	MaxMessageLength int
	HistoryLimit     int
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "baro"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Weather: WeatherConfig{
			BaseURL:         getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
			RequestTimeout:  getEnvAsDuration("WEATHER_REQUEST_TIMEOUT", 3*time.Second),
			MaxPrecipMm:     getEnvAsFloat("WEATHER_MAX_PRECIP_MM", 1.0),
			MinTemperatureC: getEnvAsFloat("WEATHER_MIN_TEMPERATURE_C", -10.0),
			MaxTemperatureC: getEnvAsFloat("WEATHER_MAX_TEMPERATURE_C", 35.0),
		},
		Recommend: RecommendConfig{
			DefaultLimit:  getEnvAsInt("RECOMMEND_DEFAULT_LIMIT", 5),
			MaxDistanceKm: getEnvAsFloat("RECOMMEND_MAX_DISTANCE_KM", 5.0),
		},
		Party: PartyConfig{
			DefaultLimit:  getEnvAsInt("PARTY_DEFAULT_LIMIT", 5),
			MaxDistanceKm: getEnvAsFloat("PARTY_MAX_DISTANCE_KM", 5.0),
		},
		Feedback: FeedbackConfig{
			EventsTopic: getEnv("FEEDBACK_EVENTS_TOPIC", "feedback"),
			WindowDays:  getEnvAsInt("FEEDBACK_WINDOW_DAYS", 2),
		},
		Chat: ChatConfig{
			SubjectPrefix:    getEnv("CHAT_SUBJECT_PREFIX", "party"),
			MaxMessageLength: getEnvAsInt("CHAT_MAX_MESSAGE_LENGTH", 1000),
			HistoryLimit:     getEnvAsInt("CHAT_HISTORY_LIMIT", 50),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Recommend.MaxDistanceKm <= 0 {
		return fmt.Errorf("recommend max distance must be positive")
	}
	if config.Party.MaxDistanceKm <= 0 {
		return fmt.Errorf("party max distance must be positive")
	}
	if config.Feedback.WindowDays <= 0 {
		return fmt.Errorf("feedback window must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
