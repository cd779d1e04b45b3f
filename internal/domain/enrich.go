package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolver geocodes a location in place and reports success.
type Resolver interface {
	Resolve(ctx context.Context, loc *Location) bool
}

// EnrichWithWeather attaches the daily forecast and the closest hourly reading
// to an event. It never fails: events without a location, with a location that
// cannot be resolved, or whose weather lookup fails come back degraded with
// both weather fields nil (graceful degradation).
func EnrichWithWeather(ctx context.Context, event CalendarEvent, resolver Resolver, gateway WeatherGateway, logger *slog.Logger) EnrichedEvent {
	if event.Location == nil {
		return Degraded(event, WeatherNoLocation)
	}
	if gateway == nil {
		return Degraded(event, WeatherDisabled)
	}

	if !event.Location.Resolved() {
		if resolver == nil || !resolver.Resolve(ctx, event.Location) {
			logger.Warn("location resolution failed",
				"event_id", event.ID,
				"location", event.Location.Query(),
			)
			return Degraded(event, WeatherUnresolved)
		}
	}

	daily, current, err := fetchWeather(ctx, event, gateway)
	if err != nil {
		logger.Warn("weather fetch failed",
			"event_id", event.ID,
			"location", event.Location.Query(),
			"lat", event.Location.Latitude,
			"lon", event.Location.Longitude,
			"error", err,
		)
		return Degraded(event, WeatherFailed)
	}

	return EnrichedEvent{
		Event:         event,
		DailyForecast: &daily,
		EventWeather:  &current,
		WeatherStatus: WeatherEnriched,
		EnrichedAt:    clock.Now(),
	}
}

// fetchWeather runs both lookups; either failing fails the pair.
func fetchWeather(ctx context.Context, event CalendarEvent, gateway WeatherGateway) (DailyForecast, EventWeather, error) {
	lat, lon := event.Location.Latitude, event.Location.Longitude

	days, err := gateway.DailyForecast(ctx, lat, lon)
	if err != nil {
		return DailyForecast{}, EventWeather{}, fmt.Errorf("daily forecast: %w", err)
	}
	day, err := ForecastForDate(days, event.StartTime)
	if err != nil {
		return DailyForecast{}, EventWeather{}, fmt.Errorf("daily forecast for %s: %w", event.StartTime.Format("2006-01-02"), err)
	}

	samples, err := gateway.HourlyForecast(ctx, lat, lon, event.StartTime)
	if err != nil {
		return DailyForecast{}, EventWeather{}, fmt.Errorf("hourly forecast: %w", err)
	}
	sample, err := ClosestSample(samples, event.StartTime)
	if err != nil {
		return DailyForecast{}, EventWeather{}, fmt.Errorf("hourly forecast for %s: %w", event.StartTime.Format("2006-01-02"), err)
	}

	return day.ToDailyForecast(), sample.ToEventWeather(), nil
}
