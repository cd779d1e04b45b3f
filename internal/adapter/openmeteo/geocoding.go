package openmeteo

import (
	"context"
	"strconv"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
)

// Search looks up places by name. Open-Meteo matches on the name alone, so
// the region is left to domain.SelectCandidate for disambiguation.
func (c *Client) Search(ctx context.Context, query domain.GeocodeQuery, count int) ([]domain.GeocodeCandidate, error) {
	if count < 1 {
		count = 1
	}

	params := map[string]string{
		"name":     query.Name,
		"count":    strconv.Itoa(count),
		"language": "en",
		"format":   "json",
	}

	var resp geocodingResponse
	if err := getJSON(ctx, c.geoHTTP, c.geoBreaker, c.geocodingURL, params, &resp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		return nil, err
	}

	if len(resp.Results) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		return nil, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()

	out := make([]domain.GeocodeCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, domain.GeocodeCandidate{
			Name:      r.Name,
			Region:    r.Admin1,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return out, nil
}

// Open-Meteo geocoding response types. "results" is absent when nothing matches.

type geocodingResponse struct {
	Results []place `json:"results"`
}

type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Timezone  string  `json:"timezone"`
}
