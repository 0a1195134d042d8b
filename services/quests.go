package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finance-gamification/logger"
	"finance-gamification/models"
	"finance-gamification/store"
)

// QuestService runs the per-day quest state machine: pending → completed when
// an activity satisfies the quest condition, pending → expired once the day
// has passed. Terminal states never transition again.
type QuestService struct {
	HeartBonus int // heart score credit per completed quest
}

func NewQuestService(heartBonus int) *QuestService {
	return &QuestService{HeartBonus: heartBonus}
}

// Process handles the quest step of one unit of work: lazily expires stale
// pending quests, generates the day's quest set if this is the first
// interaction of the day, then evaluates the triggering activity against the
// pending quests, so the very first action of the day can itself complete a
// quest. Quest XP and heart bonuses are applied to the profile in place.
func (s *QuestService) Process(tx store.Tx, act *models.Activity, today string, templates []models.DailyQuestTemplate) ([]models.Event, error) {
	if _, err := tx.ExpirePendingBefore(today); err != nil {
		return nil, err
	}

	quests, err := tx.QuestsForDate(today)
	if err != nil {
		return nil, err
	}
	if len(quests) == 0 {
		quests = s.buildQuestSet(act, today, templates)
		if err := tx.CreateQuests(quests); err != nil {
			return nil, err
		}
		logger.Logger.Debug("generated daily quest set",
			zap.String("user_id", act.UserID),
			zap.String("date", today),
			zap.Int("count", len(quests)),
		)
	}

	profile := tx.Profile()
	var events []models.Event
	for i := range quests {
		q := &quests[i]
		if q.Status != models.QuestStatusPending {
			continue
		}
		if !questMatches(q, act) {
			continue
		}

		completed := false
		if q.TargetValue > 0 {
			q.CurrentValue += act.Amount
			q.Progress = progressPercent(q.CurrentValue, q.TargetValue)
			completed = q.CurrentValue >= q.TargetValue
		} else {
			q.Progress = 100
			completed = true
		}

		if completed {
			now := time.Now()
			q.Status = models.QuestStatusCompleted
			q.Progress = 100
			q.CompletedAt = &now
			profile.TotalQuestsCompleted++

			events = append(events, models.Event{
				Type:       models.EventQuestCompleted,
				QuestID:    q.ID,
				QuestTitle: q.Title,
				XPReward:   q.XPReward,
			})
			levelEvents, err := ApplyXP(profile, q.XPReward)
			if err != nil {
				return nil, err
			}
			events = append(events, levelEvents...)
			AdjustHeart(profile, s.HeartBonus)
		}

		if err := tx.SaveQuest(q); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// buildQuestSet prefers caller-supplied personalized quests; otherwise the
// active template pool is copied into instances for the day.
func (s *QuestService) buildQuestSet(act *models.Activity, today string, templates []models.DailyQuestTemplate) []models.UserDailyQuest {
	if len(act.PersonalizedQuests) > 0 {
		quests := make([]models.UserDailyQuest, 0, len(act.PersonalizedQuests))
		for _, spec := range act.PersonalizedQuests {
			quests = append(quests, models.UserDailyQuest{
				ID:          uuid.NewString(),
				UserID:      act.UserID,
				Type:        spec.Type,
				Title:       spec.Title,
				Description: spec.Description,
				XPReward:    spec.XPReward,
				TargetValue: spec.TargetValue,
				Status:      models.QuestStatusPending,
				QuestDate:   today,
				Custom:      true,
			})
		}
		return quests
	}

	quests := make([]models.UserDailyQuest, 0, len(templates))
	for _, tmpl := range templates {
		tmplID := tmpl.ID
		quests = append(quests, models.UserDailyQuest{
			ID:          uuid.NewString(),
			UserID:      act.UserID,
			TemplateID:  &tmplID,
			Type:        tmpl.Type,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			XPReward:    tmpl.XPReward,
			TargetValue: tmpl.TargetValue,
			Status:      models.QuestStatusPending,
			QuestDate:   today,
		})
	}
	return quests
}

func questMatches(q *models.UserDailyQuest, act *models.Activity) bool {
	return string(q.Type) == string(act.Type)
}

func progressPercent(current, target float64) int {
	if target <= 0 {
		return 100
	}
	pct := int(current / target * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
