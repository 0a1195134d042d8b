package services

import (
	"finance-gamification/errs"
	"finance-gamification/models"
)

// ActivityXPWeights define base XP per activity type (tunable via config/env later)
type ActivityXPWeights struct {
	RecordExpenseXP      int
	RecordIncomeXP       int
	ReviewTransactionsXP int
	CheckBalanceXP       int
	SaveMoneyXP          int
}

var DefaultXPWeights = ActivityXPWeights{
	RecordExpenseXP:      10,
	RecordIncomeXP:       10,
	ReviewTransactionsXP: 5,
	CheckBalanceXP:       2,
	SaveMoneyXP:          15,
}

func (w ActivityXPWeights) For(t models.ActivityType) int {
	switch t {
	case models.ActivityRecordExpense:
		return w.RecordExpenseXP
	case models.ActivityRecordIncome:
		return w.RecordIncomeXP
	case models.ActivityReviewTransactions:
		return w.ReviewTransactionsXP
	case models.ActivityCheckBalance:
		return w.CheckBalanceXP
	case models.ActivitySaveMoney:
		return w.SaveMoneyXP
	}
	return 0
}

// XPRequiredForLevel returns the XP needed to complete level l.
// Deterministic integer math only: 100, 150, 200, ...
func XPRequiredForLevel(l int) int {
	if l < 1 {
		l = 1
	}
	return 100 + (l-1)*50
}

// ApplyXP credits XP and walks level thresholds, emitting one level_up event
// per crossing in ascending order. A single large grant may cross several
// levels. XP is never deducted here; negative amounts are rejected.
func ApplyXP(p *models.GamificationProfile, amount int) ([]models.Event, error) {
	if amount < 0 {
		return nil, errs.InvalidAmount
	}
	p.XP += amount
	p.TotalXPEarned += int64(amount)

	var events []models.Event
	for p.XP >= XPRequiredForLevel(p.Level) {
		p.XP -= XPRequiredForLevel(p.Level)
		p.Level++
		events = append(events, models.Event{Type: models.EventLevelUp, NewLevel: p.Level})
	}
	return events, nil
}
