package models

import (
	"time"
)

type ActivityType string

const (
	ActivityRecordExpense      ActivityType = "record-expense"
	ActivityRecordIncome       ActivityType = "record-income"
	ActivityReviewTransactions ActivityType = "review-transactions"
	ActivityCheckBalance       ActivityType = "check-balance"
	ActivitySaveMoney          ActivityType = "save-money"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityRecordExpense, ActivityRecordIncome, ActivityReviewTransactions,
		ActivityCheckBalance, ActivitySaveMoney:
		return true
	}
	return false
}

// ActivityStats carries the finance-side counters the engine cannot compute
// itself; the caller supplies them with each activity, and the stats mirror
// backfills them when omitted.
type ActivityStats struct {
	TotalTransactions int64   `json:"total_transactions"`
	BalanceChecks     int64   `json:"balance_checks"`
	TotalSaved        float64 `json:"total_saved"`
}

func (s ActivityStats) IsZero() bool {
	return s.TotalTransactions == 0 && s.BalanceChecks == 0 && s.TotalSaved == 0
}

// Activity is one qualifying action from the finance app.
type Activity struct {
	UserID     string       `json:"user_id"`
	Type       ActivityType `json:"type"`
	Amount     float64      `json:"amount"`   // magnitude for quest target checks
	Category   string       `json:"category"` // expense/income category context
	OccurredAt time.Time    `json:"occurred_at"`
	Timezone   string       `json:"timezone"` // updates the stored profile timezone when set

	Stats ActivityStats `json:"stats"`

	// Personalized quest candidates for the day; used in place of the template
	// pool when the day's quest set has not been generated yet.
	PersonalizedQuests []QuestSpec `json:"personalized_quests,omitempty"`
}

type EventType string

const (
	EventLevelUp             EventType = "level_up"
	EventQuestCompleted      EventType = "quest_completed"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventStreakExtended      EventType = "streak_extended"
	EventStreakBroken        EventType = "streak_broken"
)

// Event is one observable outcome of an activity, for notification dispatch.
// Only the fields relevant to the event type are set.
type Event struct {
	Type            EventType `json:"type"`
	NewLevel        int       `json:"new_level,omitempty"`
	QuestID         string    `json:"quest_id,omitempty"`
	QuestTitle      string    `json:"quest_title,omitempty"`
	AchievementID   string    `json:"achievement_id,omitempty"`
	AchievementCode string    `json:"achievement_code,omitempty"`
	XPReward        int       `json:"xp_reward,omitempty"`
	PriorStreak     int       `json:"prior_streak,omitempty"`
	NewStreak       int       `json:"new_streak,omitempty"`
}

// GamificationOutcome is returned from every recorded activity: the events that
// fired plus the post-mutation profile snapshot.
type GamificationOutcome struct {
	Events  []Event             `json:"events"`
	Profile GamificationProfile `json:"profile"`
}

// GamificationStatus is the read-only display snapshot.
type GamificationStatus struct {
	Profile            GamificationProfile   `json:"profile"`
	TodayQuests        []UserDailyQuest      `json:"today_quests"`
	RecentAchievements []UnlockedAchievement `json:"recent_achievements"`
	XPForNextLevel     int                   `json:"xp_for_next_level"`
}
