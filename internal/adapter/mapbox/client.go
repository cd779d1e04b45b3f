package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/sony/gobreaker"
)

const (
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	providerName   = "mapbox"
)

// Client implements domain.GeocodingProvider using the Mapbox Geocoding API.
// Mapbox takes a single free-text query, so the name and region are sent
// combined as "name, region".
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
		metrics: metrics,
		breaker: newBreaker(logger),
	}
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        providerName,
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

// Search runs a forward geocode for the combined query text.
func (c *Client) Search(ctx context.Context, query domain.GeocodeQuery, count int) ([]domain.GeocodeCandidate, error) {
	if count < 1 {
		count = 1
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query.Text()))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {strconv.Itoa(count)},
		"types":        {"place,locality"},
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, u+"?"+params.Encode())
	})
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		return nil, err
	}

	candidates := result.([]domain.GeocodeCandidate)
	if len(candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		return nil, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	return candidates, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.GeocodeCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.GeocodeCandidate, 0, len(mapboxResp.Features))
	for _, f := range mapboxResp.Features {
		if len(f.Center) != 2 {
			continue
		}
		cand := domain.GeocodeCandidate{
			Name:      f.Text,
			Longitude: f.Center[0],
			Latitude:  f.Center[1],
		}
		for _, ctxEntry := range f.Context {
			switch {
			case strings.HasPrefix(ctxEntry.ID, "region."):
				cand.Region = ctxEntry.Text
			case strings.HasPrefix(ctxEntry.ID, "country."):
				cand.Country = ctxEntry.Text
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64      `json:"center"` // [lon, lat]
	PlaceName string         `json:"place_name"`
	Text      string         `json:"text"`
	Relevance float64        `json:"relevance"`
	Context   []contextEntry `json:"context"`
}

// contextEntry is one level of the feature's administrative hierarchy,
// e.g. {"id": "region.123", "text": "Ontario"}.
type contextEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
