package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateInZone resolves the calendar date of t in the given IANA timezone and
// returns it as a date-only value (midnight UTC). Day-boundary decisions are
// made against the user's timezone, never server time.
func DateInZone(t time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString formats a date-only value as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns b - a in whole days. Both values are expected to be
// date-only (as produced by DateInZone).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
