// Package dashboard projects enriched events into flat, display-ready records.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
)

const timeLayout = "15:04"

// ViewModel is one dashboard row. Event points back at the source event and
// is left out of the JSON body.
type ViewModel struct {
	EventID     string         `json:"event_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	StartTime   time.Time      `json:"start_time"`
	Location    string         `json:"location,omitempty"`
	ColorTag    string         `json:"color_tag,omitempty"`
	Temperature string         `json:"temperature"`
	Condition   string         `json:"condition,omitempty"`
	Icon        domain.IconKey `json:"icon"`
	Message     string         `json:"message"`
	HasWeather  bool           `json:"has_weather"`

	Event *domain.CalendarEvent `json:"-"`
}

// ToViewModel flattens an enriched event. It never fails: events without
// weather get an empty temperature and the no-weather icon and message.
func ToViewModel(e domain.EnrichedEvent) ViewModel {
	event := e.Event
	vm := ViewModel{
		EventID:     event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.StartTime.Format("Mon, Jan 2"),
		Time:        timeRange(event),
		StartTime:   event.StartTime,
		ColorTag:    event.ColorTag,
		Temperature: temperature(e),
		Icon:        domain.IconNoWeather,
		Message:     domain.NoWeatherMessage,
		HasWeather:  e.HasWeather(),
		Event:       &event,
	}
	if event.Location != nil {
		vm.Location = event.Location.Name
	}

	if kind, ok := condition(e); ok {
		vm.Condition = string(kind)
		vm.Icon = domain.IconFor(kind)
		vm.Message = domain.MessageFor(kind)
	}
	return vm
}

// ToViewModels maps a batch, preserving order.
func ToViewModels(events []domain.EnrichedEvent) []ViewModel {
	out := make([]ViewModel, 0, len(events))
	for _, e := range events {
		out = append(out, ToViewModel(e))
	}
	return out
}

// temperature picks the hourly reading, then today's current temperature, then
// the daily range.
func temperature(e domain.EnrichedEvent) string {
	switch {
	case e.EventWeather != nil:
		return formatDegrees(e.EventWeather.Temperature)
	case e.DailyForecast != nil && e.DailyForecast.CurrentTemp != nil:
		return formatDegrees(*e.DailyForecast.CurrentTemp)
	case e.DailyForecast != nil:
		return fmt.Sprintf("%d-%d", int(math.Round(e.DailyForecast.MinTemp)), int(math.Round(e.DailyForecast.MaxTemp)))
	default:
		return ""
	}
}

func condition(e domain.EnrichedEvent) (domain.ConditionKind, bool) {
	switch {
	case e.EventWeather != nil:
		return e.EventWeather.Condition, true
	case e.DailyForecast != nil:
		return e.DailyForecast.Condition, true
	default:
		return "", false
	}
}

func formatDegrees(v float64) string {
	return fmt.Sprintf("%.1f°C", v)
}

func timeRange(event domain.CalendarEvent) string {
	if event.AllDay {
		return "All day"
	}
	if event.EndTime.IsZero() {
		return event.StartTime.Format(timeLayout)
	}
	return event.StartTime.Format(timeLayout) + " - " + event.EndTime.Format(timeLayout)
}
