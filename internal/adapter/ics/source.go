// Package ics reads events from an iCalendar feed, expanding recurring
// events over a fixed horizon.
package ics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/go-resty/resty/v2"
)

// DefaultHorizon bounds recurrence expansion.
const DefaultHorizon = 14 * 24 * time.Hour

// Config holds the feed location and transport settings.
type Config struct {
	URL     string
	Horizon time.Duration
	Timeout time.Duration
	Retries int
}

// Source is a domain calendar source backed by an ICS feed.
type Source struct {
	http    *resty.Client
	url     string
	horizon time.Duration
	logger  *slog.Logger
}

// NewSource validates cfg and creates a Source.
func NewSource(cfg Config, logger *slog.Logger) (*Source, error) {
	if cfg.URL == "" {
		return nil, errors.New("ics: feed URL is required")
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(max(cfg.Retries, 0)).
		SetRetryWaitTime(250 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "text/calendar").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Source{http: rc, url: cfg.URL, horizon: cfg.Horizon, logger: logger.With("feed", redactURL(cfg.URL))}, nil
}

// ListUpcomingEvents returns up to maxResults events that have not ended yet
// and start within the horizon, sorted by start time.
func (s *Source) ListUpcomingEvents(ctx context.Context, maxResults int) ([]domain.CalendarEvent, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	parsed, skipped, err := parseCalendar(body)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		s.logger.Warn("skipping ics event", "error", e)
	}

	now := domain.Now()
	events, errs := expand(parsed, now, now.Add(s.horizon))
	for _, e := range errs {
		s.logger.Warn("skipping recurring ics event", "error", e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	if maxResults > 0 && len(events) > maxResults {
		events = events[:maxResults]
	}

	s.logger.Debug("ics feed loaded", "vevents", len(parsed), "upcoming", len(events))
	return events, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	resp, err := s.http.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch ics feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch ics feed: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// redactURL keeps only the scheme and host; private feed URLs carry
// secrets in the path or query.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/..."
}
