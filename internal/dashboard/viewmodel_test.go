package dashboard

import (
	"testing"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var edt = time.FixedZone("EDT", -4*60*60)

func baseEvent() domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:        "evt-1",
		Title:     "Team Meeting",
		StartTime: time.Date(2024, 6, 1, 9, 0, 0, 0, edt),
		EndTime:   time.Date(2024, 6, 1, 10, 0, 0, 0, edt),
		Location:  &domain.Location{Name: "Toronto", Region: "Canada", Latitude: 43.65, Longitude: -79.38},
		ColorTag:  "7",
	}
}

func TestToViewModel_EventWeatherWins(t *testing.T) {
	current := 12.0
	vm := ToViewModel(domain.EnrichedEvent{
		Event:         baseEvent(),
		DailyForecast: &domain.DailyForecast{MaxTemp: 22, MinTemp: 14, Condition: domain.ConditionRainy, CurrentTemp: &current},
		EventWeather:  &domain.EventWeather{Temperature: 16.5, Condition: domain.ConditionCloudy},
	})

	assert.Equal(t, "16.5°C", vm.Temperature)
	assert.Equal(t, domain.IconCloud, vm.Icon)
	assert.Equal(t, "It is forecasted to be cloudy.", vm.Message)
	assert.Equal(t, "Cloudy", vm.Condition)
	assert.True(t, vm.HasWeather)
}

func TestToViewModel_CurrentTempFallback(t *testing.T) {
	current := 18.24
	vm := ToViewModel(domain.EnrichedEvent{
		Event:         baseEvent(),
		DailyForecast: &domain.DailyForecast{MaxTemp: 22, MinTemp: 14, Condition: domain.ConditionRainy, CurrentTemp: &current},
	})

	assert.Equal(t, "18.2°C", vm.Temperature)
	assert.Equal(t, domain.IconRain, vm.Icon)
	assert.Equal(t, "It is forecasted to rain. Don't forget your umbrella!", vm.Message)
}

func TestToViewModel_DailyRangeFallback(t *testing.T) {
	vm := ToViewModel(domain.EnrichedEvent{
		Event:         baseEvent(),
		DailyForecast: &domain.DailyForecast{MaxTemp: 21.6, MinTemp: 13.6, Condition: domain.ConditionClear},
	})

	assert.Equal(t, "14-22", vm.Temperature)
	assert.Equal(t, domain.IconSun, vm.Icon)
}

func TestToViewModel_NoWeather(t *testing.T) {
	vm := ToViewModel(domain.Degraded(baseEvent(), domain.WeatherFailed))

	assert.Empty(t, vm.Temperature)
	assert.Equal(t, domain.IconNoWeather, vm.Icon)
	assert.Equal(t, domain.NoWeatherMessage, vm.Message)
	assert.Empty(t, vm.Condition)
	assert.False(t, vm.HasWeather)
}

func TestToViewModel_Passthrough(t *testing.T) {
	event := baseEvent()
	vm := ToViewModel(domain.EnrichedEvent{Event: event})

	assert.Equal(t, "evt-1", vm.EventID)
	assert.Equal(t, "Team Meeting", vm.Title)
	assert.Equal(t, "Toronto", vm.Location)
	assert.Equal(t, "7", vm.ColorTag)
	assert.Equal(t, "Sat, Jun 1", vm.Date)
	assert.Equal(t, "09:00 - 10:00", vm.Time)
	require.NotNil(t, vm.Event)
	assert.Equal(t, event, *vm.Event)
}

func TestToViewModel_NoLocationAndAllDay(t *testing.T) {
	event := baseEvent()
	event.Location = nil
	event.AllDay = true

	vm := ToViewModel(domain.Degraded(event, domain.WeatherNoLocation))

	assert.Empty(t, vm.Location)
	assert.Equal(t, "All day", vm.Time)
}

func TestToViewModels_PreservesOrder(t *testing.T) {
	a, b, c := baseEvent(), baseEvent(), baseEvent()
	a.ID, b.ID, c.ID = "a", "b", "c"

	vms := ToViewModels([]domain.EnrichedEvent{{Event: a}, {Event: b}, {Event: c}})

	require.Len(t, vms, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{vms[0].EventID, vms[1].EventID, vms[2].EventID})
	assert.NotNil(t, ToViewModels(nil))
}
