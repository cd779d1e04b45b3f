package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/dashboard"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	vms := dashboard.ToViewModels([]domain.EnrichedEvent{
		domain.Degraded(domain.CalendarEvent{ID: "a", Title: "Lunch", StartTime: start, EndTime: start.Add(time.Hour)}, domain.WeatherNoLocation),
	})

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, vms))

	out := buf.String()
	assert.Contains(t, out, "EVENT")
	assert.Contains(t, out, "Sat, Jun 1")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, domain.NoWeatherMessage)
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, nil))
	assert.Equal(t, "No upcoming events.\n", buf.String())
}

func TestWriteJSON_RawEvents(t *testing.T) {
	events := []domain.EnrichedEvent{
		domain.Degraded(domain.CalendarEvent{ID: "a", Title: "Lunch"}, domain.WeatherUnresolved),
	}

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, events, true))
	assert.Contains(t, buf.String(), `"weather_status": "unresolved"`)

	buf.Reset()
	require.NoError(t, writeJSON(&buf, events, false))
	assert.Contains(t, buf.String(), `"message": "No Weather"`)
}
