package domain

import (
	"fmt"
	"strings"
)

// Location is a named place and, once resolved, its WGS-84 coordinates.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolved reports whether the location carries coordinates. The zero pair
// (0, 0) is the unresolved sentinel.
func (l Location) Resolved() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Key returns a canonical key: case-insensitive on name and region, exact on
// coordinates.
func (l Location) Key() string {
	return fmt.Sprintf("%s|%s|%v|%v",
		strings.ToLower(strings.TrimSpace(l.Name)),
		strings.ToLower(strings.TrimSpace(l.Region)),
		l.Latitude, l.Longitude,
	)
}

// Equal compares two locations using the same rules as Key.
func (l Location) Equal(other Location) bool {
	return l.Key() == other.Key()
}

// Query returns the combined "name, region" search string.
func (l Location) Query() string {
	if l.Region == "" {
		return l.Name
	}
	return l.Name + ", " + l.Region
}

// ParseLocation builds an unresolved Location from calendar free text. The first
// comma-separated segment is the name and the last one the region, e.g.
// "Toronto, Ontario, Canada" -> {Toronto, Canada}. Returns nil for blank input.
func ParseLocation(text string) *Location {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	parts := strings.Split(text, ",")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	loc := &Location{Name: segments[0]}
	if len(segments) > 1 {
		loc.Region = segments[len(segments)-1]
	}
	return loc
}
