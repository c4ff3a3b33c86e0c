package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts dashboard-style dates (2006-01-02) and full RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// ParseDateRange parses an inclusive [start, end] range. The end date is
// widened to the last instant of its day so same-day orders match.
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end = EndOfDay(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate before startDate")
	}
	return start, end, nil
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
