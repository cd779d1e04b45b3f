// Package openmeteo talks to the Open-Meteo geocoding and forecast APIs. The
// Client is both the primary domain.GeocodingProvider and the
// domain.WeatherGateway.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	providerName = "openmeteo"
)

// Config holds endpoint and transport settings.
type Config struct {
	GeocodingURL string
	ForecastURL  string
	Timeout      time.Duration
	Retries      int
}

// Client holds one resty client and one circuit breaker per API. Only the
// forecast client retries; geocoding makes a single attempt per search.
type Client struct {
	http         *resty.Client
	geoHTTP      *resty.Client
	geocodingURL string
	forecastURL  string
	geoBreaker   *gobreaker.CircuitBreaker
	wxBreaker    *gobreaker.CircuitBreaker
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewClient creates an Open-Meteo client. Empty URLs fall back to the public
// endpoints.
func NewClient(cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(250 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	geo := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		http:         rc,
		geoHTTP:      geo,
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		geoBreaker:   newBreaker(providerName+"-geocoding", logger),
		wxBreaker:    newBreaker(providerName+"-forecast", logger),
		logger:       logger,
		metrics:      metrics,
	}
}

func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// apiError is the body Open-Meteo returns with 4xx responses.
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// getJSON issues a GET through the breaker and decodes a 200 body into out.
func getJSON(ctx context.Context, rc *resty.Client, breaker *gobreaker.CircuitBreaker, url string, params map[string]string, out any) error {
	_, err := breaker.Execute(func() (interface{}, error) {
		resp, err := rc.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(url)
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}

		if resp.StatusCode() != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Reason != "" {
				return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode(), apiErr.Reason)
			}
			return nil, fmt.Errorf("open-meteo API error: status %d", resp.StatusCode())
		}

		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
