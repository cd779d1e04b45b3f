package ics

import (
	"fmt"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/teambition/rrule-go"
)

// maxOccurrences caps a single rule's expansion within the window.
const maxOccurrences = 500

// expand turns parsed VEVENTs into concrete events overlapping [from, to).
// Recurring events produce one event per occurrence; RECURRENCE-ID overrides
// replace the matching occurrence.
func expand(events []vevent, from, to time.Time) ([]domain.CalendarEvent, []error) {
	overrides := make(map[string][]vevent)
	var masters []vevent
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		masters = append(masters, ev)
	}

	var out []domain.CalendarEvent
	var errs []error
	for _, ev := range masters {
		if ev.RRule == "" {
			if overlaps(ev.Start, ev.End, from, to) {
				out = append(out, toDomain(ev, ev.UID))
			}
			continue
		}

		occ, err := expandRecurring(ev, overrides[ev.UID], from, to)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, occ...)
	}
	return out, errs
}

func expandRecurring(ev vevent, overrides []vevent, from, to time.Time) ([]domain.CalendarEvent, error) {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		return nil, fmt.Errorf("vevent %s: RRULE %q: %w", ev.UID, ev.RRule, err)
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	duration := ev.End.Sub(ev.Start)
	// Occurrences that started before the window may still be in progress.
	after := from.Add(-duration).In(ev.Start.Location())
	starts := set.Between(after, to.In(ev.Start.Location()), true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}

	out := make([]domain.CalendarEvent, 0, len(starts))
	for _, start := range starts {
		inst := ev
		inst.Start = start
		inst.End = start.Add(duration)
		if ev.AllDay {
			day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			inst.Start = day
			inst.End = day.AddDate(0, 0, int(duration/(24*time.Hour)))
			if !inst.End.After(day) {
				inst.End = day.AddDate(0, 0, 1)
			}
		}

		if o, ok := findOverride(overrides, start); ok {
			inst = o
		}
		if !overlaps(inst.Start, inst.End, from, to) {
			continue
		}
		out = append(out, toDomain(inst, instanceID(ev.UID, start)))
	}
	return out, nil
}

func findOverride(overrides []vevent, start time.Time) (vevent, bool) {
	for _, o := range overrides {
		if o.RecurrenceID.Equal(start) {
			return o, true
		}
	}
	return vevent{}, false
}

// instanceID follows the Google Calendar convention for expanded recurring
// events: uid_YYYYMMDDTHHMMSSZ.
func instanceID(uid string, start time.Time) string {
	return uid + "_" + start.UTC().Format("20060102T150405Z")
}

// overlaps treats a zero-length event as occupying its start instant.
func overlaps(start, end, from, to time.Time) bool {
	if !end.After(start) {
		return !start.Before(from) && start.Before(to)
	}
	return start.Before(to) && end.After(from)
}

func toDomain(ev vevent, id string) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:          id,
		Title:       ev.Summary,
		Description: ev.Description,
		StartTime:   ev.Start,
		EndTime:     ev.End,
		AllDay:      ev.AllDay,
		Location:    domain.ParseLocation(ev.Location),
		ColorTag:    ev.Color,
	}
}
