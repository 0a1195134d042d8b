package services

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"finance-gamification/errs"
	"finance-gamification/logger"
	"finance-gamification/models"
	"finance-gamification/store"
)

// AchievementService checks unlock predicates against the post-mutation
// profile snapshot and grants one-time rewards. It runs last in the unit of
// work; de-duplication rests on the storage-level unique (user, achievement)
// constraint, not on application state.
type AchievementService struct {
	MaxPasses int // re-scan bound; XP rewards can chain further unlocks
}

func NewAchievementService(maxPasses int) *AchievementService {
	if maxPasses < 1 {
		maxPasses = 1
	}
	return &AchievementService{MaxPasses: maxPasses}
}

// Evaluate scans every active achievement the user has not unlocked yet. An
// unlock grants its XP reward, which can make another XP- or level-gated
// predicate true, so unmet achievements are re-scanned until a pass unlocks
// nothing, bounded by MaxPasses. Hitting the bound is logged and deferred to
// the next activity rather than surfaced as a failure.
func (s *AchievementService) Evaluate(tx store.Tx, defs []models.AchievementType, stats models.ActivityStats) ([]models.Event, error) {
	unlocked, err := tx.UnlockedAchievementIDs()
	if err != nil {
		return nil, err
	}

	profile := tx.Profile()
	var events []models.Event
	for pass := 0; pass < s.MaxPasses; pass++ {
		anyUnlocked := false
		for _, def := range defs {
			if unlocked[def.ID] {
				continue
			}
			if !predicateMet(def, profile, stats) {
				continue
			}

			created, err := tx.InsertAchievementIfAbsent(&models.UserAchievement{
				ID:                uuid.NewString(),
				UserID:            profile.UserID,
				AchievementTypeID: def.ID,
			})
			if err != nil {
				return nil, err
			}
			unlocked[def.ID] = true
			if !created {
				// lost the race to a concurrent evaluation; not ours to announce
				continue
			}

			events = append(events, models.Event{
				Type:            models.EventAchievementUnlocked,
				AchievementID:   def.ID,
				AchievementCode: def.Code,
				XPReward:        def.XPReward,
			})
			levelEvents, err := ApplyXP(profile, def.XPReward)
			if err != nil {
				return nil, err
			}
			events = append(events, levelEvents...)
			anyUnlocked = true
		}
		if !anyUnlocked {
			return events, nil
		}
	}

	// Pass budget spent while predicates were still churning. Remaining
	// unlocks happen on the next activity.
	for _, def := range defs {
		if !unlocked[def.ID] && predicateMet(def, profile, stats) {
			logger.Logger.Warn("achievement evaluation deferred",
				zap.String("code", errs.PredicateEvaluationExhausted.Code),
				zap.String("user_id", profile.UserID),
				zap.Int("passes", s.MaxPasses),
			)
			break
		}
	}
	return events, nil
}

func predicateMet(def models.AchievementType, p *models.GamificationProfile, stats models.ActivityStats) bool {
	switch def.Category {
	case models.AchievementStreak:
		return int64(p.StreakDays) >= def.Threshold
	case models.AchievementLevel:
		return int64(p.Level) >= def.Threshold
	case models.AchievementXP:
		return p.TotalXPEarned >= def.Threshold
	case models.AchievementHeart:
		return int64(p.HeartLevel) >= def.Threshold
	case models.AchievementQuests:
		return int64(p.TotalQuestsCompleted) >= def.Threshold
	case models.AchievementTransactions:
		return stats.TotalTransactions >= def.Threshold
	case models.AchievementCustom:
		// custom achievements are granted out of band, never auto-evaluated
		return false
	}
	return false
}
