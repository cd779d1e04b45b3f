package domain

import "context"

// GeocodeQuery is a place lookup. Providers that take a single search string
// use Location.Query semantics ("name, region").
type GeocodeQuery struct {
	Name   string
	Region string
}

// Text returns the combined "name, region" search string.
func (q GeocodeQuery) Text() string {
	return Location{Name: q.Name, Region: q.Region}.Query()
}

// GeocodeCandidate is a single match returned by a geocoding provider.
type GeocodeCandidate struct {
	Name      string
	Region    string // first-level administrative area (state, province)
	Country   string
	Latitude  float64
	Longitude float64
}

// GeocodingProvider searches for places by name.
type GeocodingProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Search returns up to count candidates, best match first. An empty
	// result with a nil error means the provider found nothing.
	Search(ctx context.Context, query GeocodeQuery, count int) ([]GeocodeCandidate, error)
}
