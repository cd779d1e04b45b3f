package domain

import (
	"context"
	"log/slog"
	"strings"
)

// primarySearchCount is how many candidates the first provider is asked for so
// the region can disambiguate (e.g. London, Ontario vs London, England).
const primarySearchCount = 10

// LocationResolver geocodes locations through an ordered chain of providers.
// Each provider is tried once; the first one that returns a candidate wins.
type LocationResolver struct {
	providers []GeocodingProvider
	logger    *slog.Logger
}

// NewLocationResolver creates a resolver that tries providers in order.
func NewLocationResolver(logger *slog.Logger, providers ...GeocodingProvider) *LocationResolver {
	return &LocationResolver{
		providers: providers,
		logger:    logger,
	}
}

// Resolve fills in loc's coordinates and reports whether it succeeded.
// Already-resolved locations return true without any lookup. On failure loc is
// left untouched; provider errors are logged, never returned.
func (r *LocationResolver) Resolve(ctx context.Context, loc *Location) bool {
	if loc == nil || strings.TrimSpace(loc.Name) == "" {
		return false
	}
	if loc.Resolved() {
		return true
	}

	query := GeocodeQuery{Name: strings.TrimSpace(loc.Name), Region: strings.TrimSpace(loc.Region)}

	for i, p := range r.providers {
		count := 1
		if i == 0 {
			count = primarySearchCount
		}

		candidates, err := p.Search(ctx, query, count)
		if err != nil {
			r.logger.Warn("geocoding provider failed",
				"provider", p.Name(),
				"location", query.Text(),
				"error", err,
			)
			if ctx.Err() != nil {
				return false
			}
			continue
		}

		best, ok := SelectCandidate(candidates, query.Region)
		if !ok {
			r.logger.Debug("geocoding provider returned no match",
				"provider", p.Name(),
				"location", query.Text(),
			)
			continue
		}

		loc.Latitude = best.Latitude
		loc.Longitude = best.Longitude
		return true
	}

	return false
}

// SelectCandidate returns the first candidate whose region or country matches
// region case-insensitively, falling back to the first candidate. Candidates
// at (0, 0) are ignored since they cannot be told apart from the unresolved
// sentinel.
func SelectCandidate(candidates []GeocodeCandidate, region string) (GeocodeCandidate, bool) {
	usable := make([]GeocodeCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Latitude != 0 || c.Longitude != 0 {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return GeocodeCandidate{}, false
	}

	if region != "" {
		for _, c := range usable {
			if strings.EqualFold(c.Region, region) || strings.EqualFold(c.Country, region) {
				return c, true
			}
		}
	}
	return usable[0], true
}
