package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Calendar sources.
const (
	SourceGoogle = "google"
	SourceICS    = "ics"
)

// Config holds all service settings, populated from environment variables
// and, on Lambda, SSM Parameter Store.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DashboardLimit int
	EnrichWorkers  int

	// Calendar source configuration.
	CalendarSource    string
	GoogleCredentials string
	CalendarID        string
	ICSURL            string
	ICSHorizon        time.Duration

	// Open-Meteo weather and primary geocoding.
	OpenMeteoGeocodingURL string
	OpenMeteoForecastURL  string
	WeatherTimeout        time.Duration
	WeatherRetries        int

	// Fallback geocoders.
	MapboxToken           string
	MapboxEnabled         bool
	MapboxTimeout         time.Duration
	GeocodeCacheSize      int
	GoogleGeocodingAPIKey string

	// Optional enriched-event publisher.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads an optional .env file and the environment. When running on
// Lambda, secrets are fetched from SSM Parameter Store.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		client, err := newSSMClient(ctx)
		if err != nil {
			return nil, err
		}
		if err := cfg.loadSecrets(ctx, client); err != nil {
			return nil, err
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	limit, err := parseIntRange("DASHBOARD_LIMIT", 25, 1, 250)
	if err != nil {
		return nil, err
	}
	workers, err := parseIntRange("ENRICH_WORKERS", 8, 1, 64)
	if err != nil {
		return nil, err
	}
	horizonDays, err := parseIntRange("ICS_HORIZON_DAYS", 14, 1, 366)
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherRetries, err := parseIntRange("WEATHER_RETRIES", 2, 0, 10)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntRange("GEOCODE_CACHE_SIZE", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DashboardLimit:  limit,
		EnrichWorkers:   workers,

		CalendarSource:    sharedcfg.EnvOrDefault("CALENDAR_SOURCE", SourceGoogle),
		GoogleCredentials: os.Getenv("GOOGLE_CREDENTIALS"),
		CalendarID:        sharedcfg.EnvOrDefault("CALENDAR_ID", "primary"),
		ICSURL:            os.Getenv("ICS_URL"),
		ICSHorizon:        time.Duration(horizonDays) * 24 * time.Hour,

		OpenMeteoGeocodingURL: os.Getenv("OPENMETEO_GEOCODING_URL"),
		OpenMeteoForecastURL:  os.Getenv("OPENMETEO_FORECAST_URL"),
		WeatherTimeout:        weatherTimeout,
		WeatherRetries:        weatherRetries,

		MapboxToken:           os.Getenv("MAPBOX_TOKEN"),
		MapboxTimeout:         mapboxTimeout,
		GeocodeCacheSize:      cacheSize,
		GoogleGeocodingAPIKey: os.Getenv("GOOGLE_GEOCODING_API_KEY"),

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "dashboard-events"),
	}, nil
}

// finalize derives the enabled flags once secrets are known and validates
// the combination.
func (c *Config) finalize() error {
	c.MapboxEnabled = c.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		c.MapboxEnabled = v == "true"
	}
	c.KafkaEnabled = len(c.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		c.KafkaEnabled = v == "true"
	}

	switch c.CalendarSource {
	case SourceGoogle:
		if c.GoogleCredentials == "" {
			return errors.New("GOOGLE_CREDENTIALS is required when CALENDAR_SOURCE is google")
		}
	case SourceICS:
		if c.ICSURL == "" {
			return errors.New("ICS_URL is required when CALENDAR_SOURCE is ics")
		}
	default:
		return fmt.Errorf("invalid CALENDAR_SOURCE %q: must be google or ics", c.CalendarSource)
	}

	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	return nil
}

func parseIntRange(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be %d-%d", key, lo, hi)
	}
	return n, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
