// Package store owns durable gamification state. The engine mutates state only
// through a Tx inside WithProfile, which is the unit of work: it either commits
// as a whole or leaves nothing behind, and at most one is in flight per user.
package store

import (
	"context"

	"finance-gamification/models"
)

// Tx is the handle the engine works against inside one unit of work. The
// profile snapshot returned by Profile is exclusively held until the unit of
// work ends.
type Tx interface {
	Profile() *models.GamificationProfile
	SaveProfile(p *models.GamificationProfile) error

	QuestsForDate(date string) ([]models.UserDailyQuest, error)
	// ExpirePendingBefore marks this user's still-pending quests older than the
	// given date as expired, returning how many were closed.
	ExpirePendingBefore(date string) (int64, error)
	CreateQuests(quests []models.UserDailyQuest) error
	SaveQuest(q *models.UserDailyQuest) error

	UnlockedAchievementIDs() (map[string]bool, error)
	// InsertAchievementIfAbsent creates the unlock row unless it already
	// exists; the boolean reports whether this call created it.
	InsertAchievementIfAbsent(ua *models.UserAchievement) (bool, error)
}

type Store interface {
	// WithProfile runs fn as one atomic, per-profile-serialized unit of work.
	// The profile is created on first touch when createIfMissing is set;
	// otherwise a missing profile fails with errs.ProfileNotFound.
	WithProfile(ctx context.Context, userID string, createIfMissing bool, fn func(tx Tx) error) error

	// Read side (no locking).
	GetProfile(ctx context.Context, userID string) (*models.GamificationProfile, error)
	PendingQuests(ctx context.Context, userID, date string) ([]models.UserDailyQuest, error)
	// RecentAchievements returns newest-first; limit <= 0 means all.
	RecentAchievements(ctx context.Context, userID string, limit int) ([]models.UnlockedAchievement, error)
	ActiveQuestTemplates(ctx context.Context) ([]models.DailyQuestTemplate, error)
	ActiveAchievements(ctx context.Context) ([]models.AchievementType, error)
	StatsMirror(ctx context.Context, userID string) (*models.FinanceStatsMirror, error)
	CreateQuestTemplate(ctx context.Context, tmpl *models.DailyQuestTemplate) error

	// Maintenance, used by the scheduler.
	ExpireStaleQuests(ctx context.Context, before string) (int64, error)
	DecayInactiveHearts(ctx context.Context, inactiveDays, amount int) (int64, error)
}
