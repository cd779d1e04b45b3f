package googlegeo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/kelvins/geocoder"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(fn lookupFunc) *Provider {
	return &Provider{lookup: fn, metrics: observability.NewMetricsForTesting()}
}

func TestSearch_Success(t *testing.T) {
	var got geocoder.Address
	p := testProvider(func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 42.98, Longitude: -81.24}, nil
	})

	cands, err := p.Search(context.Background(), domain.GeocodeQuery{Name: "London", Region: "Ontario"}, 1)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, "London", got.City)
	assert.Equal(t, "Ontario", got.State)
	assert.Equal(t, "Ontario", cands[0].Region)
	assert.Equal(t, -81.24, cands[0].Longitude)
	assert.Equal(t, "google", p.Name())
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.GeocodeRequests.WithLabelValues("google", "success")))
}

func TestSearch_ZeroResultsIsEmpty(t *testing.T) {
	p := testProvider(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("No results found.")
	})

	cands, err := p.Search(context.Background(), domain.GeocodeQuery{Name: "Atlantis"}, 1)
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.GeocodeRequests.WithLabelValues("google", "empty")))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.metrics.GeocodeRequests.WithLabelValues("google", "error")))
}

func TestSearch_Error(t *testing.T) {
	p := testProvider(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("REQUEST_DENIED")
	})

	_, err := p.Search(context.Background(), domain.GeocodeQuery{Name: "Paris"}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.GeocodeRequests.WithLabelValues("google", "error")))
}

func TestSearch_ContextDone(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := testProvider(func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{Latitude: 1, Longitude: 1}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Search(ctx, domain.GeocodeQuery{Name: "Slow"}, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider("", observability.NewMetricsForTesting())
	require.Error(t, err)
}
