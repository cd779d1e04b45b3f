package domain

import (
	"time"
)

// CalendarEvent is a single event as returned by the calendar provider.
// Location is nil when the event has no place attached.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	AllDay      bool      `json:"all_day,omitempty"`
	Location    *Location `json:"location,omitempty"`
	ColorTag    string    `json:"color_tag,omitempty"`
}

// DailyForecast is the weather summary for one calendar day.
type DailyForecast struct {
	Date                time.Time     `json:"date"`
	MaxTemp             float64       `json:"max_temp"`
	MinTemp             float64       `json:"min_temp"`
	Condition           ConditionKind `json:"condition"`
	PrecipitationChance float64       `json:"precipitation_chance"` // 0.0–1.0
	WindSpeed           float64       `json:"wind_speed"`
	CurrentTemp         *float64      `json:"current_temp,omitempty"` // today only
}

// EventWeather is the hourly reading closest to an event's start.
type EventWeather struct {
	Temperature         float64       `json:"temperature"`
	Condition           ConditionKind `json:"condition"`
	PrecipitationChance float64       `json:"precipitation_chance"` // 0.0–1.0
	WindSpeed           float64       `json:"wind_speed"`
}

// WeatherStatus records how an event's enrichment ended.
type WeatherStatus string

const (
	WeatherEnriched   WeatherStatus = "enriched"
	WeatherNoLocation WeatherStatus = "no_location"
	WeatherUnresolved WeatherStatus = "unresolved"
	WeatherFailed     WeatherStatus = "failed"
	WeatherDisabled   WeatherStatus = "disabled" // no weather gateway configured
)

// EnrichedEvent pairs a calendar event with its weather. DailyForecast and
// EventWeather are either both set or both nil.
type EnrichedEvent struct {
	Event         CalendarEvent  `json:"event"`
	DailyForecast *DailyForecast `json:"daily_forecast"`
	EventWeather  *EventWeather  `json:"event_weather"`
	WeatherStatus WeatherStatus  `json:"weather_status"`
	EnrichedAt    time.Time      `json:"enriched_at"`
}

// HasWeather reports whether the event carries weather data.
func (e EnrichedEvent) HasWeather() bool {
	return e.DailyForecast != nil && e.EventWeather != nil
}

// Degraded returns the record for an event whose weather could not be attached.
func Degraded(event CalendarEvent, status WeatherStatus) EnrichedEvent {
	return EnrichedEvent{
		Event:         event,
		WeatherStatus: status,
		EnrichedAt:    clock.Now(),
	}
}
