package core

import (
	"time"
)

// CalendarLayout is the wire and surface format for calendar dates.
const CalendarLayout = "2006-01-02"

// ToStorageInstant converts a YYYY-MM-DD calendar date into the instant
// persisted by the document store (UTC midnight). An empty string maps to
// nil, never to a zero instant: absent dates persist as null.
func ToStorageInstant(date string) (*time.Time, error) {
	if date == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(CalendarLayout, date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// FromStorageInstant converts a persisted instant back into a YYYY-MM-DD
// string, discarding any time-of-day component. Nil maps to the empty
// string. Round-trip law: FromStorageInstant(ToStorageInstant(d)) == d for
// any valid calendar date d.
func FromStorageInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(CalendarLayout)
}

// ParseCalendarDate parses a YYYY-MM-DD string into a UTC-midnight time,
// suitable for day-granularity comparisons.
func ParseCalendarDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(CalendarLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Truncate zeroes the time-of-day component, keeping the calendar day in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
