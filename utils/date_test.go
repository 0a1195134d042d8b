package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateInZone(t *testing.T) {
	at := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)

	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), DateInZone(at, "UTC"))

	// 03:00 UTC is still the previous evening on the US east coast
	require.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), DateInZone(at, "America/New_York"))

	// and already the next day further east
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), DateInZone(at, "Asia/Tokyo"))

	// unknown zones fall back to UTC
	require.Equal(t, DateInZone(at, "UTC"), DateInZone(at, "Not/AZone"))
	require.Equal(t, DateInZone(at, "UTC"), DateInZone(at, ""))
}

func TestDateString(t *testing.T) {
	require.Equal(t, "2026-03-01", DateString(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC) }

	require.Equal(t, 0, DaysBetween(d(5), d(5)))
	require.Equal(t, 1, DaysBetween(d(5), d(6)))
	require.Equal(t, 3, DaysBetween(d(5), d(8)))
	require.Equal(t, -2, DaysBetween(d(5), d(3)))
}
