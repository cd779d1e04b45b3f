package openmeteo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	hourLayout     = "2006-01-02T15:04"
	forecastDays   = 7
	dailyFields    = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max"
	hourlyFields   = "temperature_2m,precipitation_probability,weather_code,wind_speed_10m"
	kindDaily      = "daily"
	kindHourly     = "hourly"
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// DailyForecast returns the 7-day daily forecast. Times are in the
// location's own timezone; the first day carries the current temperature.
func (c *Client) DailyForecast(ctx context.Context, lat, lon float64) ([]domain.ForecastDay, error) {
	params := coordParams(lat, lon)
	params["daily"] = dailyFields
	params["current"] = "temperature_2m"
	params["forecast_days"] = strconv.Itoa(forecastDays)

	var resp forecastResponse
	if err := c.fetch(ctx, kindDaily, params, &resp); err != nil {
		return nil, err
	}
	if resp.Daily == nil {
		return nil, fmt.Errorf("open-meteo daily forecast: missing daily block")
	}

	d := resp.Daily
	if err := checkLengths(len(d.Time), map[string]int{
		"weather_code":                  len(d.WeatherCode),
		"temperature_2m_max":            len(d.TemperatureMax),
		"temperature_2m_min":            len(d.TemperatureMin),
		"precipitation_probability_max": len(d.PrecipitationProbabilityMax),
		"wind_speed_10m_max":            len(d.WindSpeedMax),
	}); err != nil {
		return nil, fmt.Errorf("open-meteo daily forecast: %w", err)
	}

	loc := resp.location()
	days := make([]domain.ForecastDay, 0, len(d.Time))
	for i, raw := range d.Time {
		date, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("parse daily time %q: %w", raw, err)
		}
		// Days past the model's range come back with nulls; they are left
		// out so events on them get no forecast rather than zeros.
		if anyNil(d.WeatherCode[i], d.TemperatureMax[i], d.TemperatureMin[i], d.PrecipitationProbabilityMax[i], d.WindSpeedMax[i]) {
			c.logger.Debug("dropping incomplete forecast day", "date", raw)
			continue
		}
		days = append(days, domain.ForecastDay{
			Date:                     date,
			MaxTemp:                  *d.TemperatureMax[i],
			MinTemp:                  *d.TemperatureMin[i],
			WeatherCode:              int(*d.WeatherCode[i]),
			PrecipitationProbability: *d.PrecipitationProbabilityMax[i],
			WindSpeed:                *d.WindSpeedMax[i],
		})
	}

	if len(days) > 0 && days[0].Date.Format(dateLayout) == d.Time[0] && resp.Current != nil && resp.Current.Temperature != nil {
		temp := *resp.Current.Temperature
		days[0].CurrentTemp = &temp
	}
	return days, nil
}

// HourlyForecast returns the hourly samples for date's calendar day.
func (c *Client) HourlyForecast(ctx context.Context, lat, lon float64, date time.Time) ([]domain.HourlySample, error) {
	day := date.Format(dateLayout)
	params := coordParams(lat, lon)
	params["hourly"] = hourlyFields
	params["start_date"] = day
	params["end_date"] = day

	var resp forecastResponse
	if err := c.fetch(ctx, kindHourly, params, &resp); err != nil {
		return nil, err
	}
	if resp.Hourly == nil {
		return nil, fmt.Errorf("open-meteo hourly forecast: missing hourly block")
	}

	h := resp.Hourly
	if err := checkLengths(len(h.Time), map[string]int{
		"temperature_2m":            len(h.Temperature),
		"precipitation_probability": len(h.PrecipitationProbability),
		"weather_code":              len(h.WeatherCode),
		"wind_speed_10m":            len(h.WindSpeed),
	}); err != nil {
		return nil, fmt.Errorf("open-meteo hourly forecast: %w", err)
	}

	loc := resp.location()
	samples := make([]domain.HourlySample, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(hourLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", raw, err)
		}
		if anyNil(h.Temperature[i], h.PrecipitationProbability[i], h.WeatherCode[i], h.WindSpeed[i]) {
			return nil, fmt.Errorf("open-meteo hourly forecast: missing value at %s", raw)
		}
		samples = append(samples, domain.HourlySample{
			Time:                     ts,
			Temperature:              *h.Temperature[i],
			PrecipitationProbability: *h.PrecipitationProbability[i],
			WeatherCode:              int(*h.WeatherCode[i]),
			WindSpeed:                *h.WindSpeed[i],
		})
	}
	return samples, nil
}

func (c *Client) fetch(ctx context.Context, kind string, params map[string]string, out *forecastResponse) error {
	start := time.Now()
	err := getJSON(ctx, c.http, c.wxBreaker, c.forecastURL, params, out)
	c.metrics.WeatherAPIDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues(kind, outcomeError).Inc()
		return fmt.Errorf("open-meteo %s forecast: %w", kind, err)
	}
	c.metrics.WeatherRequests.WithLabelValues(kind, outcomeSuccess).Inc()
	return nil
}

func coordParams(lat, lon float64) map[string]string {
	return map[string]string{
		"latitude":  strconv.FormatFloat(lat, 'f', 4, 64),
		"longitude": strconv.FormatFloat(lon, 'f', 4, 64),
		"timezone":  "auto",
	}
}

// checkLengths reports the first field whose array is not parallel to time.
func checkLengths(n int, fields map[string]int) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if fields[name] != n {
			return fmt.Errorf("%s has %d values for %d times", name, fields[name], n)
		}
	}
	return nil
}

func anyNil(values ...*float64) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// Open-Meteo forecast response types. Arrays in a block are parallel to Time
// and hold null where the model has no value.

type forecastResponse struct {
	Timezone             string   `json:"timezone"`
	TimezoneAbbreviation string   `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int      `json:"utc_offset_seconds"`
	Current              *current `json:"current"`
	Daily                *daily   `json:"daily"`
	Hourly               *hourly  `json:"hourly"`
}

type current struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temperature_2m"`
}

type daily struct {
	Time                        []string   `json:"time"`
	WeatherCode                 []*float64 `json:"weather_code"`
	TemperatureMax              []*float64 `json:"temperature_2m_max"`
	TemperatureMin              []*float64 `json:"temperature_2m_min"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
	WindSpeedMax                []*float64 `json:"wind_speed_10m_max"`
}

type hourly struct {
	Time                     []string   `json:"time"`
	Temperature              []*float64 `json:"temperature_2m"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	WeatherCode              []*float64 `json:"weather_code"`
	WindSpeed                []*float64 `json:"wind_speed_10m"`
}

// location resolves the response timezone, falling back to a fixed offset
// when the IANA name is unknown to the local tz database.
func (r forecastResponse) location() *time.Location {
	if r.Timezone != "" {
		if loc, err := time.LoadLocation(r.Timezone); err == nil {
			return loc
		}
	}
	name := r.TimezoneAbbreviation
	if name == "" {
		name = r.Timezone
	}
	return time.FixedZone(name, r.UTCOffsetSeconds)
}
