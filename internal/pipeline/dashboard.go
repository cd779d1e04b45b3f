package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"github.com/google/uuid"
)

const (
	// DefaultLimit is the number of events returned when no limit is given.
	DefaultLimit = 25
	// MaxLimit caps a single dashboard request.
	MaxLimit = 250
)

// ErrCalendarUnavailable wraps calendar provider failures so callers can tell
// "the calendar is down" apart from "the calendar is empty".
var ErrCalendarUnavailable = errors.New("calendar unavailable")

// CalendarSource lists upcoming events, soonest first.
type CalendarSource interface {
	ListUpcomingEvents(ctx context.Context, maxResults int) ([]domain.CalendarEvent, error)
}

// BatchEnricher attaches weather to a batch of events, preserving order.
type BatchEnricher interface {
	Enrich(ctx context.Context, events []domain.CalendarEvent) []domain.EnrichedEvent
}

// Publisher forwards enriched events downstream.
type Publisher interface {
	Publish(ctx context.Context, events []domain.EnrichedEvent) error
}

// Dashboard fetches upcoming calendar events and enriches them with weather.
type Dashboard struct {
	calendar     CalendarSource
	enricher     BatchEnricher
	publisher    Publisher
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
	defaultLimit int
}

// New creates a Dashboard. publisher may be nil. defaultLimit is used when a
// caller passes a non-positive limit.
func New(calendar CalendarSource, enricher BatchEnricher, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, defaultLimit int) *Dashboard {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	return &Dashboard{
		calendar:     calendar,
		enricher:     enricher,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		defaultLimit: defaultLimit,
	}
}

// CheckReadiness returns nil once the calendar has been fetched successfully.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("calendar has not been fetched yet")
	}
	return nil
}

// Ready reports whether the calendar has been fetched at least once.
func (d *Dashboard) Ready() bool {
	return d.ready.Load()
}

// GetDashboardEvents returns up to limit upcoming events with weather attached.
// Calendar failures are returned wrapped in ErrCalendarUnavailable; an empty
// calendar yields an empty, non-nil slice.
func (d *Dashboard) GetDashboardEvents(ctx context.Context, limit int) ([]domain.EnrichedEvent, error) {
	if limit < 1 {
		limit = d.defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	start := time.Now()
	logger := d.logger.With("batch_id", uuid.NewString())

	events, err := d.calendar.ListUpcomingEvents(ctx, limit)
	if err != nil {
		d.metrics.CalendarFetchError.Inc()
		logger.Error("calendar fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCalendarUnavailable, err)
	}
	d.ready.Store(true)
	d.metrics.BatchSize.Observe(float64(len(events)))

	if len(events) == 0 {
		logger.Info("no upcoming events")
		return []domain.EnrichedEvent{}, nil
	}

	enriched := d.enricher.Enrich(ctx, events)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	logger.Info("dashboard batch enriched",
		"events", len(enriched),
		"with_weather", countWithWeather(enriched),
		"duration", time.Since(start),
	)

	d.publish(ctx, logger, enriched)
	return enriched, nil
}

func (d *Dashboard) publish(ctx context.Context, logger *slog.Logger, events []domain.EnrichedEvent) {
	if d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events); err != nil {
		d.metrics.PublishErrors.Inc()
		logger.Warn("publish enriched events failed", "error", err, "events", len(events))
	}
}

func countWithWeather(events []domain.EnrichedEvent) int {
	n := 0
	for _, e := range events {
		if e.HasWeather() {
			n++
		}
	}
	return n
}
