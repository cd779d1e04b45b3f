package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock provider ---

type mockProvider struct {
	name       string
	candidates []GeocodeCandidate
	err        error
	calls      int
	lastCount  int
	lastQuery  GeocodeQuery
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(_ context.Context, query GeocodeQuery, count int) ([]GeocodeCandidate, error) {
	m.calls++
	m.lastCount = count
	m.lastQuery = query
	return m.candidates, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolve_AlreadyResolvedSkipsProviders(t *testing.T) {
	p := &mockProvider{name: "primary"}
	r := NewLocationResolver(discardLogger(), p)

	loc := &Location{Name: "Toronto", Latitude: 43.65, Longitude: -79.38}

	assert.True(t, r.Resolve(context.Background(), loc))
	assert.Equal(t, 0, p.calls)
}

func TestResolve_BlankName(t *testing.T) {
	p := &mockProvider{name: "primary"}
	r := NewLocationResolver(discardLogger(), p)

	assert.False(t, r.Resolve(context.Background(), nil))
	assert.False(t, r.Resolve(context.Background(), &Location{Name: "  "}))
	assert.Equal(t, 0, p.calls)
}

func TestResolve_PrimaryPrefersRegionMatch(t *testing.T) {
	p := &mockProvider{
		name: "primary",
		candidates: []GeocodeCandidate{
			{Name: "London", Region: "England", Country: "United Kingdom", Latitude: 51.5, Longitude: -0.12},
			{Name: "London", Region: "Ontario", Country: "Canada", Latitude: 42.98, Longitude: -81.24},
		},
	}
	r := NewLocationResolver(discardLogger(), p)

	loc := &Location{Name: "London", Region: "Canada"}

	assert.True(t, r.Resolve(context.Background(), loc))
	assert.Equal(t, 42.98, loc.Latitude)
	assert.Equal(t, -81.24, loc.Longitude)
	assert.Equal(t, primarySearchCount, p.lastCount)
	assert.Equal(t, GeocodeQuery{Name: "London", Region: "Canada"}, p.lastQuery)
}

func TestResolve_FallsBackToNextProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", err: errors.New("503 service unavailable")}
	secondary := &mockProvider{name: "secondary", candidates: []GeocodeCandidate{{Latitude: 43.65, Longitude: -79.38}}}
	r := NewLocationResolver(discardLogger(), primary, secondary)

	loc := &Location{Name: "Toronto", Region: "Canada"}

	assert.True(t, r.Resolve(context.Background(), loc))
	assert.Equal(t, 43.65, loc.Latitude)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 1, secondary.lastCount)
}

func TestResolve_NoProviderMatches(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	secondary := &mockProvider{name: "secondary", candidates: []GeocodeCandidate{{Name: "Nowhere"}}}
	r := NewLocationResolver(discardLogger(), primary, secondary)

	loc := &Location{Name: "Atlantis"}

	assert.False(t, r.Resolve(context.Background(), loc))
	assert.False(t, loc.Resolved())
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolve_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &mockProvider{name: "primary", err: context.Canceled}
	secondary := &mockProvider{name: "secondary"}
	r := NewLocationResolver(discardLogger(), primary, secondary)

	assert.False(t, r.Resolve(ctx, &Location{Name: "Toronto"}))
	assert.Equal(t, 0, secondary.calls)
}

func TestSelectCandidate(t *testing.T) {
	candidates := []GeocodeCandidate{
		{Name: "Zero", Latitude: 0, Longitude: 0},
		{Name: "Paris", Region: "Texas", Country: "United States", Latitude: 33.66, Longitude: -95.55},
		{Name: "Paris", Region: "Île-de-France", Country: "France", Latitude: 48.85, Longitude: 2.35},
	}

	got, ok := SelectCandidate(candidates, "france")
	assert.True(t, ok)
	assert.Equal(t, 48.85, got.Latitude)

	got, ok = SelectCandidate(candidates, "")
	assert.True(t, ok)
	assert.Equal(t, 33.66, got.Latitude)

	_, ok = SelectCandidate(candidates[:1], "")
	assert.False(t, ok)
}
