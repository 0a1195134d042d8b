package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance-gamification/errs"
	"finance-gamification/models"
)

func TestRecordActivity_RejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordActivity(context.Background(), activity("u1", "pet-the-dog", 0, day(0)))

	require.ErrorIs(t, err, errs.InvalidActivityType)
}

func TestRecordActivity_FirstActivityCreatesProfile(t *testing.T) {
	svc, ms := newTestService(t)
	ctx := context.Background()

	out, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 12, day(0)))
	require.NoError(t, err)

	require.Len(t, eventsOfType(out.Events, models.EventStreakExtended), 1)
	require.Equal(t, 1, out.Profile.StreakDays)
	require.Equal(t, 1, out.Profile.Level)
	require.Equal(t, 50+2, out.Profile.HeartLevel) // default plus one quest bonus

	prof, err := ms.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, out.Profile.XP, prof.XP)
}

func TestRecordActivity_SevenDayStreakUnlocksAchievement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var out *models.GamificationOutcome
	var err error
	for i := 0; i < 7; i++ {
		out, err = svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(i)))
		require.NoError(t, err)
	}

	// day 7: streak extension, quest completion and the unlock all in one outcome
	extended := eventsOfType(out.Events, models.EventStreakExtended)
	require.Len(t, extended, 1)
	require.Equal(t, 7, extended[0].NewStreak)
	require.Len(t, eventsOfType(out.Events, models.EventQuestCompleted), 1)

	unlocks := eventsOfType(out.Events, models.EventAchievementUnlocked)
	require.Len(t, unlocks, 1)
	require.Equal(t, "STREAK_7", unlocks[0].AchievementCode)
	require.Equal(t, 100, unlocks[0].XPReward)

	// 7 days x (10 base + 20 quest) + 100 reward = 310: level 3 with 60 left
	require.Equal(t, int64(310), out.Profile.TotalXPEarned)
	require.Equal(t, 3, out.Profile.Level)
	require.Equal(t, 60, out.Profile.XP)
	require.Equal(t, 7, out.Profile.StreakDays)
	require.Equal(t, 7, out.Profile.TotalQuestsCompleted)
}

func TestRecordActivity_StreakBreakCostsHeart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err)
	require.Equal(t, 52, out.Profile.HeartLevel)

	// skipped a day
	out, err = svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(2)))
	require.NoError(t, err)

	broken := eventsOfType(out.Events, models.EventStreakBroken)
	require.Len(t, broken, 1)
	require.Equal(t, 1, broken[0].PriorStreak)
	require.Equal(t, 1, out.Profile.StreakDays)
	require.Equal(t, 52-5+2, out.Profile.HeartLevel) // penalty, then a fresh quest bonus
}

func TestRecordActivity_SameDayRepeatDoesNotDoubleCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err)

	out, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err)

	require.Empty(t, eventsOfType(out.Events, models.EventStreakExtended))
	require.Empty(t, eventsOfType(out.Events, models.EventQuestCompleted))
	require.Equal(t, 1, out.Profile.StreakDays)
	require.Equal(t, 1, out.Profile.TotalQuestsCompleted)
	require.Equal(t, 40, out.Profile.XP) // second base credit only
}

func TestRecordActivity_BackdatedEntryLeavesStreakAlone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(3)))
	require.NoError(t, err)

	out, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(1)))
	require.NoError(t, err)

	require.Empty(t, eventsOfType(out.Events, models.EventStreakExtended))
	require.Empty(t, eventsOfType(out.Events, models.EventStreakBroken))
	require.Equal(t, 1, out.Profile.StreakDays)
	require.Equal(t, day(3), *out.Profile.LastEntryDate)
}

func TestRecordActivity_ConcurrentDuplicatesUnlockOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	const workers = 8

	outcomes := make([]*models.GamificationOutcome, workers)
	errors := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			act := activity("u1", models.ActivityRecordExpense, 5, day(0))
			act.Stats = models.ActivityStats{TotalTransactions: 1}
			outcomes[i], errors[i] = svc.RecordActivity(ctx, act)
		}(i)
	}
	wg.Wait()

	var unlocks, questsDone, streaks int
	for i, out := range outcomes {
		require.NoError(t, errors[i])
		unlocks += len(eventsOfType(out.Events, models.EventAchievementUnlocked))
		questsDone += len(eventsOfType(out.Events, models.EventQuestCompleted))
		streaks += len(eventsOfType(out.Events, models.EventStreakExtended))
	}
	require.Equal(t, 1, unlocks) // FIRST_ENTRY fires exactly once
	require.Equal(t, 1, questsDone)
	require.Equal(t, 1, streaks)

	prof, err := svc.Store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, prof.StreakDays)
	require.Equal(t, 1, prof.TotalQuestsCompleted)
	// 8 x 10 base + 20 quest + 25 unlock = 125 total
	require.Equal(t, int64(125), prof.TotalXPEarned)
	require.Equal(t, 2, prof.Level)
	require.Equal(t, 25, prof.XP)
}

func TestGrantXP_LevelsUpAcrossThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err) // 30 XP at level 1

	out, err := svc.GrantXP(ctx, "u1", 60, "promo")
	require.NoError(t, err)
	require.Equal(t, 90, out.Profile.XP)
	require.Empty(t, eventsOfType(out.Events, models.EventLevelUp))

	out, err = svc.GrantXP(ctx, "u1", 25, "promo")
	require.NoError(t, err)
	levelUps := eventsOfType(out.Events, models.EventLevelUp)
	require.Len(t, levelUps, 1)
	require.Equal(t, 2, levelUps[0].NewLevel)
	require.Equal(t, 2, out.Profile.Level)
	require.Equal(t, 15, out.Profile.XP)
}

func TestGrantXP_RequiresExistingProfile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GrantXP(context.Background(), "ghost", 100, "promo")

	require.ErrorIs(t, err, errs.ProfileNotFound)
}

func TestGrantXP_NegativeAmountRollsBack(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err)
	before, err := svc.Store.GetProfile(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.GrantXP(ctx, "u1", -10, "oops")
	require.ErrorIs(t, err, errs.InvalidAmount)

	after, err := svc.Store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, before.XP, after.XP)
	require.Equal(t, before.TotalXPEarned, after.TotalXPEarned)
}

func TestStatus_ReturnsSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Status(ctx, "u1")
	require.ErrorIs(t, err, errs.ProfileNotFound)

	_, err = svc.RecordActivity(ctx, &models.Activity{UserID: "u1", Type: models.ActivityRecordExpense, Amount: 5})
	require.NoError(t, err)

	status, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", status.Profile.UserID)
	require.Len(t, status.TodayQuests, len(models.DefaultQuestTemplates))
	require.Equal(t, XPRequiredForLevel(status.Profile.Level), status.XPForNextLevel)
}

func TestRecordActivity_StatsMirrorBackfillsCounters(t *testing.T) {
	svc, ms := newTestService(t)
	ctx := context.Background()

	ms.SetStatsMirror(&models.FinanceStatsMirror{UserID: "u1", TotalTransactions: 150})

	out, err := svc.RecordActivity(ctx, activity("u1", models.ActivityRecordExpense, 5, day(0)))
	require.NoError(t, err)

	codes := make(map[string]bool)
	for _, ev := range eventsOfType(out.Events, models.EventAchievementUnlocked) {
		codes[ev.AchievementCode] = true
	}
	require.True(t, codes["FIRST_ENTRY"])
	require.True(t, codes["TX_100"])
}

func TestRecordActivity_TimezoneShiftsDayBoundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// 01:30 UTC on Jan 2 is still Jan 1 evening in New York
	at := time.Date(2026, 1, 2, 1, 30, 0, 0, time.UTC)
	act := activity("u1", models.ActivityRecordExpense, 5, at)
	act.Timezone = "America/New_York"
	out, err := svc.RecordActivity(ctx, act)
	require.NoError(t, err)
	require.Equal(t, day(0), *out.Profile.LastEntryDate)
	require.Equal(t, "America/New_York", out.Profile.Timezone)
}

func TestCreateQuestTemplate_DerivesCodeFromTitle(t *testing.T) {
	svc, ms := newTestService(t)
	ctx := context.Background()

	tmpl := &models.DailyQuestTemplate{
		Type:     models.QuestCheckBalance,
		Title:    "Peek at Your Balance",
		XPReward: 10,
		IsActive: true,
	}
	require.NoError(t, svc.CreateQuestTemplate(ctx, tmpl))
	require.Equal(t, "peek-at-your-balance", tmpl.Code)
	require.NotEmpty(t, tmpl.ID)

	templates, err := ms.ActiveQuestTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, len(models.DefaultQuestTemplates)+1)
}
