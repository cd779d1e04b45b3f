// Package googlecalendar reads and writes events on a Google Calendar using a
// service account.
package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const dateLayout = "2006-01-02"

// ErrMissingStart marks an event without a usable start time.
var ErrMissingStart = errors.New("event has no start time")

// EventsAPI is the subset of the Calendar API the Client uses.
type EventsAPI interface {
	List(ctx context.Context, calendarID string, timeMin time.Time, maxResults int) ([]*calendar.Event, error)
	Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
	Update(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, calendarID, eventID string) error
	Calendar(ctx context.Context, calendarID string) (*calendar.Calendar, error)
}

// Client is a domain calendar source backed by Google Calendar.
type Client struct {
	api        EventsAPI
	calendarID string
	logger     *slog.Logger
}

// NewClient authenticates with service-account credentials and returns a
// Client for calendarID.
func NewClient(ctx context.Context, credentialsJSON []byte, calendarID string, logger *slog.Logger) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("load google credentials: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return NewClientWithAPI(&serviceAPI{svc: svc}, calendarID, logger), nil
}

// NewClientWithAPI builds a Client over any EventsAPI implementation.
func NewClientWithAPI(api EventsAPI, calendarID string, logger *slog.Logger) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{api: api, calendarID: calendarID, logger: logger}
}

// Connect verifies access to the calendar and returns its id.
func (c *Client) Connect(ctx context.Context) (string, error) {
	cal, err := c.api.Calendar(ctx, c.calendarID)
	if err != nil {
		return "", fmt.Errorf("connect to calendar %q: %w", c.calendarID, err)
	}
	return cal.Id, nil
}

// ListUpcomingEvents returns up to maxResults events starting from now,
// ordered by start time with recurring events expanded. Events that cannot
// be converted are logged and skipped.
func (c *Client) ListUpcomingEvents(ctx context.Context, maxResults int) ([]domain.CalendarEvent, error) {
	items, err := c.api.List(ctx, c.calendarID, domain.Now(), maxResults)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(items))
	for _, item := range items {
		ev, err := toDomain(item)
		if err != nil {
			c.logger.Warn("skipping calendar event", "event_id", item.Id, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// CreateEvent inserts event and returns it as stored by Google.
func (c *Client) CreateEvent(ctx context.Context, event domain.CalendarEvent) (domain.CalendarEvent, error) {
	created, err := c.api.Insert(ctx, c.calendarID, fromDomain(event))
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("create event: %w", err)
	}
	return toDomain(created)
}

// UpdateEvent replaces the event with event.ID.
func (c *Client) UpdateEvent(ctx context.Context, event domain.CalendarEvent) (domain.CalendarEvent, error) {
	if event.ID == "" {
		return domain.CalendarEvent{}, errors.New("update event: missing id")
	}
	updated, err := c.api.Update(ctx, c.calendarID, event.ID, fromDomain(event))
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("update event %s: %w", event.ID, err)
	}
	return toDomain(updated)
}

// DeleteEvent removes the event with id.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, c.calendarID, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

func toDomain(item *calendar.Event) (domain.CalendarEvent, error) {
	ev := domain.CalendarEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    domain.ParseLocation(item.Location),
		ColorTag:    item.ColorId,
	}

	start, allDay, err := parseEventTime(item.Start)
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	ev.StartTime = start
	ev.AllDay = allDay

	end, _, err := parseEventTime(item.End)
	switch {
	case err == nil:
		ev.EndTime = end
	case allDay:
		ev.EndTime = start.AddDate(0, 0, 1)
	default:
		ev.EndTime = start
	}
	return ev, nil
}

// parseEventTime reads a DateTime (RFC 3339) or, for all-day events, a Date
// in the event's own timezone.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, ErrMissingStart
	}
	if t.DateTime != "" {
		ts, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse date-time %q: %w", t.DateTime, err)
		}
		if loc := loadZone(t.TimeZone); loc != nil {
			ts = ts.In(loc)
		}
		return ts, false, nil
	}
	if t.Date != "" {
		loc := loadZone(t.TimeZone)
		if loc == nil {
			loc = time.Local
		}
		ts, err := time.ParseInLocation(dateLayout, t.Date, loc)
		if err != nil {
			return time.Time{}, true, fmt.Errorf("parse date %q: %w", t.Date, err)
		}
		return ts, true, nil
	}
	return time.Time{}, false, ErrMissingStart
}

func loadZone(name string) *time.Location {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	return loc
}

func fromDomain(ev domain.CalendarEvent) *calendar.Event {
	out := &calendar.Event{
		Id:          ev.ID,
		Summary:     ev.Title,
		Description: ev.Description,
		ColorId:     ev.ColorTag,
	}
	if ev.Location != nil {
		out.Location = ev.Location.Query()
	}

	end := ev.EndTime
	if ev.AllDay {
		if !end.After(ev.StartTime) {
			end = ev.StartTime.AddDate(0, 0, 1)
		}
		out.Start = &calendar.EventDateTime{Date: ev.StartTime.Format(dateLayout)}
		out.End = &calendar.EventDateTime{Date: end.Format(dateLayout)}
		return out
	}

	if end.IsZero() {
		end = ev.StartTime
	}
	out.Start = &calendar.EventDateTime{DateTime: ev.StartTime.Format(time.RFC3339)}
	out.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)}
	return out
}

// serviceAPI adapts *calendar.Service to EventsAPI.
type serviceAPI struct {
	svc *calendar.Service
}

func (s *serviceAPI) List(ctx context.Context, calendarID string, timeMin time.Time, maxResults int) ([]*calendar.Event, error) {
	resp, err := s.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (s *serviceAPI) Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return s.svc.Events.Insert(calendarID, event).Context(ctx).Do()
}

func (s *serviceAPI) Update(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	return s.svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
}

func (s *serviceAPI) Delete(ctx context.Context, calendarID, eventID string) error {
	return s.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

func (s *serviceAPI) Calendar(ctx context.Context, calendarID string) (*calendar.Calendar, error) {
	return s.svc.Calendars.Get(calendarID).Context(ctx).Do()
}
