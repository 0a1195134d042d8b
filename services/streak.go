package services

import (
	"time"

	"finance-gamification/models"
	"finance-gamification/utils"
)

// StreakResult reports what AdvanceStreak did. Counted is false both for a
// same-day repeat (already credited) and for a backdated activity (no-op).
type StreakResult struct {
	Counted     bool
	Extended    bool
	Broken      bool
	PriorStreak int
}

// AdvanceStreak is the only code that touches LastEntryDate. It must run
// before quest and achievement evaluation, which read the updated StreakDays.
// today is the activity's calendar date in the user's timezone, date-only.
func AdvanceStreak(p *models.GamificationProfile, today time.Time) StreakResult {
	if p.LastEntryDate == nil {
		p.StreakDays = 1
		p.LastEntryDate = &today
		bumpLongestStreak(p)
		return StreakResult{Counted: true, Extended: true}
	}

	switch days := utils.DaysBetween(*p.LastEntryDate, today); {
	case days == 0:
		// already counted today
		return StreakResult{}
	case days == 1:
		p.StreakDays++
		p.LastEntryDate = &today
		bumpLongestStreak(p)
		return StreakResult{Counted: true, Extended: true}
	case days > 1:
		prior := p.StreakDays
		p.StreakDays = 1
		p.LastEntryDate = &today
		bumpLongestStreak(p)
		return StreakResult{Counted: true, Broken: true, PriorStreak: prior}
	default:
		// clock skew / backdated entry: leave the streak alone
		return StreakResult{}
	}
}

func bumpLongestStreak(p *models.GamificationProfile) {
	if p.StreakDays > p.LongestStreak {
		p.LongestStreak = p.StreakDays
	}
}
