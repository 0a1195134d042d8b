package services

import (
	"context"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"finance-gamification/cache"
	"finance-gamification/errs"
	"finance-gamification/logger"
	"finance-gamification/models"
	"finance-gamification/store"
	"finance-gamification/utils"
)

// GamificationService is the entry point the finance app calls on every
// qualifying activity. It sequences streak → XP → heart → quests →
// achievements against one locked profile snapshot and persists everything
// atomically; failure of any step rolls the whole unit of work back.
type GamificationService struct {
	Store        store.Store
	Quests       *QuestService
	Achievements *AchievementService
	XPWeights    ActivityXPWeights

	StreakBreakHeartPenalty int
	StatusCacheTTL          time.Duration
}

type GamificationConfig struct {
	QuestHeartBonus         int
	StreakBreakHeartPenalty int
	MaxAchievementPasses    int
	StatusCacheSeconds      int
}

func NewGamificationService(st store.Store, cfg GamificationConfig) *GamificationService {
	return &GamificationService{
		Store:                   st,
		Quests:                  NewQuestService(cfg.QuestHeartBonus),
		Achievements:            NewAchievementService(cfg.MaxAchievementPasses),
		XPWeights:               DefaultXPWeights,
		StreakBreakHeartPenalty: cfg.StreakBreakHeartPenalty,
		StatusCacheTTL:          time.Duration(cfg.StatusCacheSeconds) * time.Second,
	}
}

// RecordActivity processes one activity and returns the observable events for
// notification dispatch plus the post-mutation profile snapshot.
func (s *GamificationService) RecordActivity(ctx context.Context, act *models.Activity) (*models.GamificationOutcome, error) {
	if !act.Type.Valid() {
		return nil, errs.InvalidActivityType
	}
	if act.OccurredAt.IsZero() {
		act.OccurredAt = time.Now()
	}

	// Catalog and mirror reads happen outside the unit of work; they are
	// static config and best-effort counters, not contended state.
	templates, err := s.Store.ActiveQuestTemplates(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := s.Store.ActiveAchievements(ctx)
	if err != nil {
		return nil, err
	}
	stats := act.Stats
	if stats.IsZero() {
		mirror, err := s.Store.StatsMirror(ctx, act.UserID)
		if err != nil {
			return nil, err
		}
		stats = mirror.Stats()
	}

	var outcome models.GamificationOutcome
	err = s.Store.WithProfile(ctx, act.UserID, true, func(tx store.Tx) error {
		profile := tx.Profile()
		if act.Timezone != "" && act.Timezone != profile.Timezone {
			profile.Timezone = act.Timezone
		}
		today := utils.DateInZone(act.OccurredAt, profile.Timezone)

		var events []models.Event

		res := AdvanceStreak(profile, today)
		if res.Broken {
			AdjustHeart(profile, -s.StreakBreakHeartPenalty)
			events = append(events, models.Event{Type: models.EventStreakBroken, PriorStreak: res.PriorStreak})
		} else if res.Extended {
			events = append(events, models.Event{Type: models.EventStreakExtended, NewStreak: profile.StreakDays})
		}

		levelEvents, err := ApplyXP(profile, s.XPWeights.For(act.Type))
		if err != nil {
			return err
		}
		events = append(events, levelEvents...)

		questEvents, err := s.Quests.Process(tx, act, utils.DateString(today), templates)
		if err != nil {
			return err
		}
		events = append(events, questEvents...)

		achievementEvents, err := s.Achievements.Evaluate(tx, defs, stats)
		if err != nil {
			return err
		}
		events = append(events, achievementEvents...)

		if err := tx.SaveProfile(profile); err != nil {
			return err
		}
		outcome = models.GamificationOutcome{Events: events, Profile: *profile}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateStatus(ctx, act.UserID)
	logger.Logger.Info("activity processed",
		zap.String("user_id", act.UserID),
		zap.String("activity", string(act.Type)),
		zap.Int("events", len(outcome.Events)),
		zap.Int("level", outcome.Profile.Level),
		zap.Int("streak", outcome.Profile.StreakDays),
	)
	return &outcome, nil
}

// GrantXP is the admin path: credit XP to an existing profile and re-run the
// achievement evaluator, all in one unit of work. The profile must already
// exist; grants never create one.
func (s *GamificationService) GrantXP(ctx context.Context, userID string, amount int, reason string) (*models.GamificationOutcome, error) {
	defs, err := s.Store.ActiveAchievements(ctx)
	if err != nil {
		return nil, err
	}
	mirror, err := s.Store.StatsMirror(ctx, userID)
	if err != nil {
		return nil, err
	}

	var outcome models.GamificationOutcome
	err = s.Store.WithProfile(ctx, userID, false, func(tx store.Tx) error {
		profile := tx.Profile()
		events, err := ApplyXP(profile, amount)
		if err != nil {
			return err
		}
		achievementEvents, err := s.Achievements.Evaluate(tx, defs, mirror.Stats())
		if err != nil {
			return err
		}
		events = append(events, achievementEvents...)
		if err := tx.SaveProfile(profile); err != nil {
			return err
		}
		outcome = models.GamificationOutcome{Events: events, Profile: *profile}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateStatus(ctx, userID)
	logger.Logger.Info("XP granted",
		zap.String("user_id", userID),
		zap.Int("xp", amount),
		zap.String("reason", reason),
	)
	return &outcome, nil
}

// Status is the read-only display snapshot: profile, today's quests, recent
// unlocks. Served from the redis cache when warm.
func (s *GamificationService) Status(ctx context.Context, userID string) (*models.GamificationStatus, error) {
	if cached, ok := cache.GetStatus(ctx, userID); ok {
		return cached, nil
	}

	profile, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := utils.DateString(utils.DateInZone(time.Now(), profile.Timezone))
	quests, err := s.Store.PendingQuests(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	recent, err := s.Store.RecentAchievements(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	status := &models.GamificationStatus{
		Profile:            *profile,
		TodayQuests:        quests,
		RecentAchievements: recent,
		XPForNextLevel:     XPRequiredForLevel(profile.Level),
	}
	cache.SetStatus(ctx, userID, status, s.StatusCacheTTL)
	return status, nil
}

// UnlockedAchievements lists every achievement the user has earned.
func (s *GamificationService) UnlockedAchievements(ctx context.Context, userID string) ([]models.UnlockedAchievement, error) {
	return s.Store.RecentAchievements(ctx, userID, 0)
}

// CreateQuestTemplate registers a new template in the daily pool; the code is
// derived from the title when not supplied.
func (s *GamificationService) CreateQuestTemplate(ctx context.Context, tmpl *models.DailyQuestTemplate) error {
	if tmpl.Code == "" {
		tmpl.Code = slug.Make(tmpl.Title)
	}
	return s.Store.CreateQuestTemplate(ctx, tmpl)
}
