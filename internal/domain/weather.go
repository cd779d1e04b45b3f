package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoForecastForDate is returned when the daily forecast has no entry
	// for the requested date (typically beyond the 7-day horizon).
	ErrNoForecastForDate = errors.New("no daily forecast for date")

	// ErrNoHourlySamples is returned when the provider returned no hourly data.
	ErrNoHourlySamples = errors.New("no hourly samples")
)

// ForecastDay is one day of a provider's daily forecast, before
// classification and precipitation normalization.
type ForecastDay struct {
	Date                     time.Time // midnight, provider local time
	MaxTemp                  float64
	MinTemp                  float64
	WeatherCode              int
	PrecipitationProbability float64 // 0–100
	WindSpeed                float64
	CurrentTemp              *float64
}

// HourlySample is a single hourly reading from the provider.
type HourlySample struct {
	Time                     time.Time
	Temperature              float64
	PrecipitationProbability float64 // 0–100
	WeatherCode              int
	WindSpeed                float64
}

// WeatherGateway fetches forecast data for coordinates.
type WeatherGateway interface {
	// DailyForecast returns the daily forecast starting today. When the
	// provider reports current conditions, the first entry carries CurrentTemp.
	DailyForecast(ctx context.Context, lat, lon float64) ([]ForecastDay, error)

	// HourlyForecast returns the hourly samples for the given calendar date.
	HourlyForecast(ctx context.Context, lat, lon float64, date time.Time) ([]HourlySample, error)
}

// NormalizePrecipitation converts a 0–100 percentage to a 0.0–1.0 fraction,
// clamping out-of-range provider values.
func NormalizePrecipitation(percent float64) float64 {
	switch {
	case percent <= 0:
		return 0
	case percent >= 100:
		return 1
	default:
		return percent / 100
	}
}

// sameDate compares calendar dates as seen in each value's own location.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ForecastForDate selects the entry whose date equals the calendar date of
// start in start's own timezone.
func ForecastForDate(days []ForecastDay, start time.Time) (ForecastDay, error) {
	for _, d := range days {
		if sameDate(d.Date, start) {
			return d, nil
		}
	}
	return ForecastDay{}, ErrNoForecastForDate
}

// ClosestSample returns the sample with the smallest absolute distance to
// target. Ties resolve to the earliest sample in the slice.
func ClosestSample(samples []HourlySample, target time.Time) (HourlySample, error) {
	if len(samples) == 0 {
		return HourlySample{}, ErrNoHourlySamples
	}

	best := 0
	bestDist := absDuration(samples[0].Time.Sub(target))
	for i := 1; i < len(samples); i++ {
		d := absDuration(samples[i].Time.Sub(target))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return samples[best], nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// ToDailyForecast classifies and normalizes a provider day.
func (d ForecastDay) ToDailyForecast() DailyForecast {
	return DailyForecast{
		Date:                d.Date,
		MaxTemp:             d.MaxTemp,
		MinTemp:             d.MinTemp,
		Condition:           Classify(d.WeatherCode),
		PrecipitationChance: NormalizePrecipitation(d.PrecipitationProbability),
		WindSpeed:           d.WindSpeed,
		CurrentTemp:         d.CurrentTemp,
	}
}

// ToEventWeather classifies and normalizes an hourly sample.
func (s HourlySample) ToEventWeather() EventWeather {
	return EventWeather{
		Temperature:         s.Temperature,
		Condition:           Classify(s.WeatherCode),
		PrecipitationChance: NormalizePrecipitation(s.PrecipitationProbability),
		WindSpeed:           s.WindSpeed,
	}
}
