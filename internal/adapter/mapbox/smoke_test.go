//go:build mapbox

package mapbox

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     discardLogger(),
		breaker:    newBreaker(discardLogger()),
	}
}

func TestSmoke_Search(t *testing.T) {
	c := smokeClient(t)

	got, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "Toronto", Region: "Canada"}, 1)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.InDelta(t, 43.65, got[0].Latitude, 0.5)
	assert.InDelta(t, -79.38, got[0].Longitude, 0.5)
	assert.Equal(t, "Canada", got[0].Country)
}

func TestSmoke_SearchDisambiguatesRegion(t *testing.T) {
	c := smokeClient(t)

	got, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "London", Region: "Ontario"}, 5)
	require.NoError(t, err)

	best, ok := domain.SelectCandidate(got, "Ontario")
	require.True(t, ok)
	assert.InDelta(t, 42.98, best.Latitude, 0.5)
}
