// Package app wires configuration into a ready-to-use dashboard service.
// Every entry point (HTTP service, Lambda, preview CLI) builds through New.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/geocache"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/googlecalendar"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/googlegeo"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/ics"
	kafkaadapter "github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/adapter/openmeteo"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/config"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/pipeline"
)

// App is the assembled dashboard plus the resources it owns.
type App struct {
	Dashboard *pipeline.Dashboard
	publisher *kafkaadapter.Publisher
}

// New builds the calendar source, geocoder chain, weather gateway and
// optional publisher described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	calendar, err := newCalendar(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	weather := openmeteo.NewClient(openmeteo.Config{
		GeocodingURL: cfg.OpenMeteoGeocodingURL,
		ForecastURL:  cfg.OpenMeteoForecastURL,
		Timeout:      cfg.WeatherTimeout,
		Retries:      cfg.WeatherRetries,
	}, logger, metrics)

	providers, err := newProviders(cfg, weather, logger, metrics)
	if err != nil {
		return nil, err
	}
	resolver := domain.NewLocationResolver(logger, providers...)
	enricher := pipeline.NewEnricher(resolver, weather, cfg.EnrichWorkers, logger, metrics)

	a := &App{}
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		a.publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = a.publisher
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	a.Dashboard = pipeline.New(calendar, enricher, publisher, logger, metrics, cfg.DashboardLimit)
	return a, nil
}

// Close releases the publisher, if any.
func (a *App) Close() error {
	if a.publisher == nil {
		return nil
	}
	return a.publisher.Close()
}

func newCalendar(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.CalendarSource, error) {
	switch cfg.CalendarSource {
	case config.SourceGoogle:
		c, err := googlecalendar.NewClient(ctx, []byte(cfg.GoogleCredentials), cfg.CalendarID, logger)
		if err != nil {
			return nil, fmt.Errorf("google calendar: %w", err)
		}
		logger.Info("calendar source: google", "calendar_id", cfg.CalendarID)
		return c, nil
	case config.SourceICS:
		s, err := ics.NewSource(ics.Config{
			URL:     cfg.ICSURL,
			Horizon: cfg.ICSHorizon,
			Retries: 1,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("calendar source: ics", "horizon", cfg.ICSHorizon)
		return s, nil
	default:
		return nil, errors.New("unknown calendar source " + cfg.CalendarSource)
	}
}

// newProviders returns the geocoder chain: Open-Meteo, then Mapbox and
// Google when configured. Each is wrapped in its own LRU cache.
func newProviders(cfg *config.Config, primary domain.GeocodingProvider, logger *slog.Logger, metrics *observability.Metrics) ([]domain.GeocodingProvider, error) {
	providers := []domain.GeocodingProvider{
		geocache.NewCachedProvider(primary, cfg.GeocodeCacheSize, metrics),
	}

	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		providers = append(providers, geocache.NewCachedProvider(client, cfg.GeocodeCacheSize, metrics))
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	if cfg.GoogleGeocodingAPIKey != "" {
		p, err := googlegeo.NewProvider(cfg.GoogleGeocodingAPIKey, metrics)
		if err != nil {
			return nil, err
		}
		providers = append(providers, geocache.NewCachedProvider(p, cfg.GeocodeCacheSize, metrics))
		logger.Info("google geocoding enabled")
	}
	return providers, nil
}
