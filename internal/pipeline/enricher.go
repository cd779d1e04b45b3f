package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Worker pool bounds for NewEnricher.
const (
	// DefaultWorkers is used when the requested pool size is out of range.
	DefaultWorkers = 8
	// MaxWorkers caps concurrent per-event enrichments.
	MaxWorkers = 64
)

// Enricher attaches weather to batches of calendar events on a bounded
// worker pool. Output order always matches input order.
type Enricher struct {
	resolver domain.Resolver
	gateway  domain.WeatherGateway
	workers  int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEnricher creates an Enricher. A nil gateway disables weather lookups so
// every event comes back without weather. workers outside 1..MaxWorkers falls
// back to DefaultWorkers.
func NewEnricher(resolver domain.Resolver, gateway domain.WeatherGateway, workers int, logger *slog.Logger, metrics *observability.Metrics) *Enricher {
	if workers < 1 || workers > MaxWorkers {
		workers = DefaultWorkers
	}
	return &Enricher{
		resolver: resolver,
		gateway:  gateway,
		workers:  workers,
		logger:   logger,
		metrics:  metrics,
	}
}

// Enrich returns one record per well-formed input event, in input order.
// Events without a start time are dropped and logged. Per-event failures
// never surface; they produce degraded records instead.
func (e *Enricher) Enrich(ctx context.Context, events []domain.CalendarEvent) []domain.EnrichedEvent {
	valid := make([]domain.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.StartTime.IsZero() {
			e.logger.Warn("skipping malformed event", "event_id", ev.ID, "error", "missing start time")
			e.metrics.Enrichment.WithLabelValues("malformed").Inc()
			continue
		}
		valid = append(valid, ev)
	}

	results := make([]domain.EnrichedEvent, len(valid))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, ev := range valid {
		g.Go(func() error {
			results[i] = e.enrichOne(ctx, ev)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

func (e *Enricher) enrichOne(ctx context.Context, event domain.CalendarEvent) (result domain.EnrichedEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("enrichment panicked", "event_id", event.ID, "error", fmt.Sprint(r))
			result = domain.Degraded(event, domain.WeatherFailed)
			e.metrics.Enrichment.WithLabelValues(string(domain.WeatherFailed)).Inc()
		}
	}()

	// Each worker resolves its own copy so events never share a Location.
	if event.Location != nil {
		loc := *event.Location
		event.Location = &loc
	}

	result = domain.EnrichWithWeather(ctx, event, e.resolver, e.gateway, e.logger)
	e.metrics.Enrichment.WithLabelValues(string(result.WeatherStatus)).Inc()
	return result
}
