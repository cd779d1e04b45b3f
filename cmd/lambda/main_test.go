package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/app"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/dashboard"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalendar struct {
	events []domain.CalendarEvent
	err    error
}

func (s *stubCalendar) ListUpcomingEvents(context.Context, int) ([]domain.CalendarEvent, error) {
	return s.events, s.err
}

type passthroughEnricher struct{}

func (passthroughEnricher) Enrich(_ context.Context, events []domain.CalendarEvent) []domain.EnrichedEvent {
	out := make([]domain.EnrichedEvent, len(events))
	for i, e := range events {
		out[i] = domain.Degraded(e, domain.WeatherNoLocation)
	}
	return out
}

func testApp(cal *stubCalendar) *app.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &app.App{Dashboard: pipeline.New(cal, passthroughEnricher{}, nil, logger, observability.NewMetricsForTesting(), 0)}
}

func useCalendar(cal *stubCalendar) {
	built = testApp(cal)
}

func TestHandler_ViewModels(t *testing.T) {
	useCalendar(&stubCalendar{events: []domain.CalendarEvent{
		{ID: "evt-1", Title: "Lunch", StartTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
		Path:                  "/api/v1/dashboard",
		QueryStringParameters: map[string]string{"limit": "5"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body []dashboard.ViewModel
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Lunch", body[0].Title)
	assert.Equal(t, domain.NoWeatherMessage, body[0].Message)
}

func TestHandler_EnrichedEventsPath(t *testing.T) {
	useCalendar(&stubCalendar{})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{Path: eventsPath})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, resp.Body)
}

func TestHandler_BadLimit(t *testing.T) {
	useCalendar(&stubCalendar{})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"limit": "1000"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_CalendarDown(t *testing.T) {
	useCalendar(&stubCalendar{err: errors.New("invalid_grant")})

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, resp.Body, "invalid_grant")
}

func TestHandler_RetriesFailedInit(t *testing.T) {
	built = nil
	orig := newApp
	t.Cleanup(func() { newApp = orig; built = nil })

	var calls int
	newApp = func(context.Context) (*app.App, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("ssm: throttled")
		}
		return testApp(&stubCalendar{}), nil
	}

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = handler(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = handler(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a successful build is reused")
}
