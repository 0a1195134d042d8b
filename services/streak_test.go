package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance-gamification/models"
)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAdvanceStreak_FirstEntry(t *testing.T) {
	p := &models.GamificationProfile{UserID: "u1", Level: 1}

	res := AdvanceStreak(p, day(0))

	require.True(t, res.Counted)
	require.True(t, res.Extended)
	require.Equal(t, 1, p.StreakDays)
	require.Equal(t, 1, p.LongestStreak)
	require.Equal(t, day(0), *p.LastEntryDate)
}

func TestAdvanceStreak_SameDayIsIdempotent(t *testing.T) {
	p := &models.GamificationProfile{UserID: "u1", Level: 1}
	AdvanceStreak(p, day(0))

	// repeated activity on the same local day must not double-count
	for i := 0; i < 3; i++ {
		res := AdvanceStreak(p, day(0))
		require.False(t, res.Counted)
		require.Equal(t, 1, p.StreakDays)
	}
}

func TestAdvanceStreak_NextDayExtends(t *testing.T) {
	p := &models.GamificationProfile{UserID: "u1", Level: 1}
	AdvanceStreak(p, day(0))

	res := AdvanceStreak(p, day(1))

	require.True(t, res.Extended)
	require.False(t, res.Broken)
	require.Equal(t, 2, p.StreakDays)
	require.Equal(t, day(1), *p.LastEntryDate)
}

func TestAdvanceStreak_GapBreaks(t *testing.T) {
	p := &models.GamificationProfile{UserID: "u1", Level: 1}
	for i := 0; i < 5; i++ {
		AdvanceStreak(p, day(i))
	}
	require.Equal(t, 5, p.StreakDays)

	res := AdvanceStreak(p, day(7)) // day 5 was skipped

	require.True(t, res.Broken)
	require.Equal(t, 5, res.PriorStreak)
	require.Equal(t, 1, p.StreakDays)
	require.Equal(t, 5, p.LongestStreak)
	require.Equal(t, day(7), *p.LastEntryDate)
}

func TestAdvanceStreak_BackdatedEntryIsNoop(t *testing.T) {
	p := &models.GamificationProfile{UserID: "u1", Level: 1}
	AdvanceStreak(p, day(3))

	res := AdvanceStreak(p, day(1))

	require.False(t, res.Counted)
	require.False(t, res.Broken)
	require.Equal(t, 1, p.StreakDays)
	require.Equal(t, day(3), *p.LastEntryDate)
}
