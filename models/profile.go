package models

import (
	"time"

	"gorm.io/gorm"
)

// GamificationProfile tracks gamified progression for each user (denormalized for performance)
type GamificationProfile struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // links to finance app user

	// Core progression. XP is the amount inside the current level and is always
	// below XPRequiredForLevel(Level); TotalXPEarned only ever increases.
	Level         int   `json:"level" gorm:"default:1"`
	XP            int   `json:"xp" gorm:"default:0"`
	TotalXPEarned int64 `json:"total_xp_earned" gorm:"default:0"`

	// Streak state. LastEntryDate is the date of the last qualifying activity
	// resolved in the user's timezone, stored date-only.
	StreakDays    int        `json:"streak_days" gorm:"default:0"`
	LongestStreak int        `json:"longest_streak" gorm:"default:0"`
	LastEntryDate *time.Time `json:"last_entry_date,omitempty"`
	Timezone      string     `json:"timezone" gorm:"type:varchar(64);default:'UTC'"`

	// Engagement
	HeartLevel           int `json:"heart_level" gorm:"default:50"` // bounded [0,100]
	TotalQuestsCompleted int `json:"total_quests_completed" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
