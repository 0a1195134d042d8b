package models

import (
	"time"
)

type QuestType string

const (
	QuestRecordExpense      QuestType = "record-expense"
	QuestRecordIncome       QuestType = "record-income"
	QuestReviewTransactions QuestType = "review-transactions"
	QuestCheckBalance       QuestType = "check-balance"
	QuestSaveMoney          QuestType = "save-money"
	QuestCustom             QuestType = "custom"
)

type QuestStatus string

const (
	QuestStatusPending   QuestStatus = "pending"
	QuestStatusCompleted QuestStatus = "completed"
	QuestStatusExpired   QuestStatus = "expired"
)

// DailyQuestTemplate: static config shared across users (loaded from DB)
type DailyQuestTemplate struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "track-an-expense"
	Type        QuestType `gorm:"type:varchar(32);not null" json:"type"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	XPReward    int       `gorm:"default:20" json:"xp_reward"`
	TargetValue float64   `gorm:"default:0" json:"target_value"` // 0 = complete on first matching activity
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserDailyQuest: one user's quest instance for one local day. Template fields
// are copied in at generation time so templates can change without rewriting
// history; custom (personalized) quests have no TemplateID at all.
type UserDailyQuest struct {
	ID          string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string      `gorm:"index:idx_quest_user_date;not null" json:"user_id"`
	TemplateID  *string     `gorm:"type:uuid" json:"template_id,omitempty"`
	Type        QuestType   `gorm:"type:varchar(32);not null" json:"type"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	XPReward    int         `json:"xp_reward"`
	TargetValue float64     `json:"target_value"`
	CurrentValue float64    `gorm:"default:0" json:"current_value"`
	Progress    int         `gorm:"default:0" json:"progress"` // 0-100
	Status      QuestStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	QuestDate   string      `gorm:"type:varchar(10);index:idx_quest_user_date;not null" json:"quest_date"` // YYYY-MM-DD, user-local
	Custom      bool        `gorm:"default:false" json:"custom"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// QuestSpec is a personalized quest candidate supplied by an external
// generator (e.g. the AI assistant). The engine consumes these as-is in place
// of template-derived quests for the day.
type QuestSpec struct {
	Type        QuestType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	XPReward    int       `json:"xp_reward"`
	TargetValue float64   `json:"target_value"`
}

// DefaultQuestTemplates seeds the template pool on boot (upsert by code).
var DefaultQuestTemplates = []DailyQuestTemplate{
	{
		Code:        "track-an-expense",
		Type:        QuestRecordExpense,
		Title:       "Track an Expense",
		Description: "Record at least one expense today",
		XPReward:    20,
		IsActive:    true,
	},
	{
		Code:        "log-some-income",
		Type:        QuestRecordIncome,
		Title:       "Log Some Income",
		Description: "Record an income entry today",
		XPReward:    20,
		IsActive:    true,
	},
	{
		Code:        "review-your-history",
		Type:        QuestReviewTransactions,
		Title:       "Review Your History",
		Description: "Look back over your recent transactions",
		XPReward:    15,
		IsActive:    true,
	},
	{
		Code:        "check-your-balance",
		Type:        QuestCheckBalance,
		Title:       "Check Your Balance",
		Description: "Open your balance overview",
		XPReward:    10,
		IsActive:    true,
	},
	{
		Code:        "put-something-aside",
		Type:        QuestSaveMoney,
		Title:       "Put Something Aside",
		Description: "Move at least 10 into savings",
		XPReward:    40,
		TargetValue: 10,
		IsActive:    true,
	},
}
