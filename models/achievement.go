package models

import (
	"time"
)

type AchievementCategory string

const (
	AchievementStreak       AchievementCategory = "streak"
	AchievementLevel        AchievementCategory = "level"
	AchievementTransactions AchievementCategory = "transactions-count"
	AchievementXP           AchievementCategory = "xp"
	AchievementHeart        AchievementCategory = "heart"
	AchievementQuests       AchievementCategory = "quests-count"
	AchievementCustom       AchievementCategory = "custom"
)

// AchievementType: static config (loaded from DB, seeded below)
type AchievementType struct {
	ID          string              `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code        string              `gorm:"uniqueIndex;not null" json:"code"` // e.g., "STREAK_7"
	Name        string              `gorm:"not null" json:"name"`
	Description string              `json:"description"`
	IconURL     string              `gorm:"type:text" json:"icon_url"`
	Rarity      string              `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, rare, epic, legendary
	Category    AchievementCategory `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Threshold   int64               `json:"threshold"`
	XPReward    int                 `json:"xp_reward"`
	IsActive    bool                `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: awarded instance. The unique index on (user, achievement)
// is the idempotency key for unlocking: row existence means "already unlocked",
// and concurrent evaluations race on the constraint, not on application state.
type UserAchievement struct {
	ID                string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID            string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementTypeID string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"achievement_type_id"`
	UnlockedAt        time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// UnlockedAchievement joins the instance with its template for display.
type UnlockedAchievement struct {
	AchievementType
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementTriggers seeds the achievement table on boot (upsert by code).
var AchievementTriggers = []AchievementType{
	{
		Code:        "FIRST_ENTRY",
		Name:        "Getting Started",
		Description: "Recorded your first transaction",
		Rarity:      "common",
		Category:    AchievementTransactions,
		Threshold:   1,
		XPReward:    25,
		IsActive:    true,
	},
	{
		Code:        "STREAK_7",
		Name:        "One Week Strong",
		Description: "Kept a 7-day activity streak",
		Rarity:      "rare",
		Category:    AchievementStreak,
		Threshold:   7,
		XPReward:    100,
		IsActive:    true,
	},
	{
		Code:        "STREAK_30",
		Name:        "Habit Formed",
		Description: "Kept a 30-day activity streak",
		Rarity:      "epic",
		Category:    AchievementStreak,
		Threshold:   30,
		XPReward:    500,
		IsActive:    true,
	},
	{
		Code:        "LEVEL_5",
		Name:        "Climbing Up",
		Description: "Reached level 5",
		Rarity:      "common",
		Category:    AchievementLevel,
		Threshold:   5,
		XPReward:    50,
		IsActive:    true,
	},
	{
		Code:        "LEVEL_10",
		Name:        "Double Digits",
		Description: "Reached level 10",
		Rarity:      "rare",
		Category:    AchievementLevel,
		Threshold:   10,
		XPReward:    150,
		IsActive:    true,
	},
	{
		Code:        "XP_1000",
		Name:        "Point Collector",
		Description: "Earned 1,000 XP in total",
		Rarity:      "rare",
		Category:    AchievementXP,
		Threshold:   1000,
		XPReward:    100,
		IsActive:    true,
	},
	{
		Code:        "HEART_FULL",
		Name:        "Full of Heart",
		Description: "Reached a heart score of 100",
		Rarity:      "epic",
		Category:    AchievementHeart,
		Threshold:   100,
		XPReward:    200,
		IsActive:    true,
	},
	{
		Code:        "QUESTS_50",
		Name:        "Quest Veteran",
		Description: "Completed 50 daily quests",
		Rarity:      "epic",
		Category:    AchievementQuests,
		Threshold:   50,
		XPReward:    300,
		IsActive:    true,
	},
	{
		Code:        "TX_100",
		Name:        "Bookkeeper",
		Description: "Recorded 100 transactions",
		Rarity:      "rare",
		Category:    AchievementTransactions,
		Threshold:   100,
		XPReward:    150,
		IsActive:    true,
	},
}
