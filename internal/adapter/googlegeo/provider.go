// Package googlegeo is the last-resort geocoding provider, backed by the
// Google Maps Geocoding API through kelvins/geocoder.
package googlegeo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/kelvins/geocoder"
)

const providerName = "google"

// errNoResults is the message kelvins/geocoder returns for ZERO_RESULTS.
const errNoResults = "No results found"

// lookupFunc matches geocoder.Geocoding.
type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// Provider geocodes a single best match per query.
type Provider struct {
	lookup  lookupFunc
	metrics *observability.Metrics
}

// NewProvider configures the package-level API key used by kelvins/geocoder.
func NewProvider(apiKey string, metrics *observability.Metrics) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("googlegeo: API key is required")
	}
	geocoder.ApiKey = apiKey
	return &Provider{lookup: geocoder.Geocoding, metrics: metrics}, nil
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string { return providerName }

// Search returns at most one candidate; count is ignored. The underlying
// client has no context support, so the call is abandoned (not cancelled)
// when ctx ends first.
func (p *Provider) Search(ctx context.Context, query domain.GeocodeQuery, _ int) ([]domain.GeocodeCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := p.lookup(geocoder.Address{City: query.Name, State: query.Region})
		done <- result{loc, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		p.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		if strings.Contains(res.err.Error(), errNoResults) {
			p.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
			return nil, nil
		}
		p.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("google geocoding %q: %w", query.Text(), res.err)
	}
	if res.loc.Latitude == 0 && res.loc.Longitude == 0 {
		p.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		return nil, nil
	}

	p.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	return []domain.GeocodeCandidate{{
		Name:      query.Name,
		Region:    query.Region,
		Latitude:  res.loc.Latitude,
		Longitude: res.loc.Longitude,
	}}, nil
}
