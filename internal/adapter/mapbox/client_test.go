package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     discardLogger(),
		breaker:    newBreaker(discardLogger()),
	}
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "London, Canada.json")
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, "place,locality", r.URL.Query().Get("types"))

		resp := response{
			Features: []feature{
				{
					Center:    []float64{-81.2497, 42.9837},
					PlaceName: "London, Ontario, Canada",
					Text:      "London",
					Relevance: 0.95,
					Context: []contextEntry{
						{ID: "region.123", Text: "Ontario"},
						{ID: "country.456", Text: "Canada"},
					},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	got, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "London", Region: "Canada"}, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 42.9837, got[0].Latitude)
	assert.Equal(t, -81.2497, got[0].Longitude)
	assert.Equal(t, "London", got[0].Name)
	assert.Equal(t, "Ontario", got[0].Region)
	assert.Equal(t, "Canada", got[0].Country)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("mapbox", "success")))
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	got, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "NONEXISTENT"}, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("mapbox", "empty")))
}

func TestClient_Search_SkipsFeaturesWithoutCenter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"features":[{"text":"Broken"},{"text":"Paris","center":[2.35,48.85]}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	got, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "Paris"}, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paris", got[0].Name)
}

func TestClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	c.token = "bad-token"

	_, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "Toronto"}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("mapbox", "error")))
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)

	_, err := c.Search(context.Background(), domain.GeocodeQuery{Name: "Toronto"}, 1)
	require.Error(t, err)
}

func TestClient_Search_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	for range 10 {
		_, _ = c.Search(context.Background(), domain.GeocodeQuery{Name: "Toronto"}, 1)
	}

	// The default breaker trips after more than five consecutive failures.
	assert.Equal(t, int32(6), calls.Load())
}
