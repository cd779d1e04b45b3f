package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// vevent is a VEVENT reduced to what expansion needs.
type vevent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Color       string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule        string
	ExDates      []time.Time
	RecurrenceID *time.Time
}

// parseCalendar decodes an ICS payload. VEVENTs that cannot be read are
// returned in skipped rather than failing the whole feed; cancelled events
// are dropped.
func parseCalendar(body []byte) (events []vevent, skipped []error, err error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse calendar: %w", err)
	}

	for _, ve := range cal.Events() {
		if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
			continue
		}
		ev, perr := parseEvent(ve)
		if perr != nil {
			skipped = append(skipped, perr)
			continue
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

func parseEvent(ve *ical.VEvent) (vevent, error) {
	var out vevent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("vevent missing UID")
	}
	out.UID = uid.Value
	out.Summary = propValue(ve, ical.ComponentPropertySummary)
	out.Description = propValue(ve, ical.ComponentPropertyDescription)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)
	out.Color = propValue(ve, ical.ComponentPropertyColor)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("vevent %s: missing DTSTART", out.UID)
	}
	out.AllDay = isDateValue(dtStart)

	var err error
	if out.AllDay {
		out.Start, err = ve.GetAllDayStartAt()
	} else {
		out.Start, err = ve.GetStartAt()
	}
	if err != nil {
		return out, fmt.Errorf("vevent %s: DTSTART: %w", out.UID, err)
	}

	out.End = eventEnd(ve, out)
	out.RRule = propValue(ve, ical.ComponentPropertyRrule)

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := paramLocation(p, out.Start.Location())
		for _, part := range strings.Split(p.Value, ",") {
			if t, perr := parseICSTime(part, loc); perr == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if rid := ve.GetProperty(ical.ComponentPropertyRecurrenceId); rid != nil {
		t, perr := parseICSTime(rid.Value, paramLocation(rid, out.Start.Location()))
		if perr != nil {
			return out, fmt.Errorf("vevent %s: RECURRENCE-ID: %w", out.UID, perr)
		}
		out.RecurrenceID = &t
	}
	return out, nil
}

// eventEnd falls back to a one-day span for all-day events and a zero
// duration for timed events without DTEND.
func eventEnd(ve *ical.VEvent, ev vevent) time.Time {
	if ev.AllDay {
		if end, err := ve.GetAllDayEndAt(); err == nil && end.After(ev.Start) {
			return end
		}
		return ev.Start.AddDate(0, 0, 1)
	}
	if end, err := ve.GetEndAt(); err == nil && !end.Before(ev.Start) {
		return end
	}
	return ev.Start
}

// isDateValue reports VALUE=DATE or a bare YYYYMMDD value.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func paramLocation(p *ical.IANAProperty, fallback *time.Location) *time.Location {
	if tz, ok := p.ICalParameters["TZID"]; ok && len(tz) == 1 {
		if loc, err := time.LoadLocation(tz[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseICSTime reads the UTC, floating and date-only forms used by EXDATE
// and RECURRENCE-ID.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
