// models/stats_mirror.go
package models

import (
	"time"
)

// FinanceStatsMirror mirrors per-user activity counters from the finance
// service. It backfills achievement predicates (transactions-count etc.) when
// the caller does not supply counters inline.
// Table name: finance_stats_mirrors
type FinanceStatsMirror struct {
	ID                string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID            string    `gorm:"not null;uniqueIndex" json:"user_id"`
	TotalTransactions int64     `gorm:"default:0" json:"total_transactions"`
	TotalExpenses     int64     `gorm:"default:0" json:"total_expenses"`
	TotalIncomes      int64     `gorm:"default:0" json:"total_incomes"`
	BalanceChecks     int64     `gorm:"default:0" json:"balance_checks"`
	TotalSaved        float64   `gorm:"default:0" json:"total_saved"`
	SyncedAt          time.Time `json:"synced_at"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *FinanceStatsMirror) Stats() ActivityStats {
	if m == nil {
		return ActivityStats{}
	}
	return ActivityStats{
		TotalTransactions: m.TotalTransactions,
		BalanceChecks:     m.BalanceChecks,
		TotalSaved:        m.TotalSaved,
	}
}
