package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance-gamification/errs"
	"finance-gamification/models"
)

func TestWithProfile_CreateAndReload(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	err := ms.WithProfile(ctx, "u1", true, func(tx Tx) error {
		p := tx.Profile()
		require.Equal(t, 1, p.Level)
		require.Equal(t, 50, p.HeartLevel)
		require.Equal(t, "UTC", p.Timezone)
		p.XP = 42
		return tx.SaveProfile(p)
	})
	require.NoError(t, err)

	prof, err := ms.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 42, prof.XP)
}

func TestWithProfile_MissingProfile(t *testing.T) {
	ms := NewMemoryStore()

	err := ms.WithProfile(context.Background(), "ghost", false, func(tx Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, errs.ProfileNotFound)
}

func TestWithProfile_ErrorDiscardsStagedWrites(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := ms.WithProfile(ctx, "u1", true, func(tx Tx) error {
		tx.Profile().XP = 999
		require.NoError(t, tx.CreateQuests([]models.UserDailyQuest{
			{UserID: "u1", Type: models.QuestCheckBalance, Status: models.QuestStatusPending, QuestDate: "2026-01-01"},
		}))
		created, err := tx.InsertAchievementIfAbsent(&models.UserAchievement{UserID: "u1", AchievementTypeID: "a1"})
		require.NoError(t, err)
		require.True(t, created)
		return boom
	})
	require.ErrorIs(t, err, boom)

	// nothing committed: no profile, no quests, no unlock
	_, err = ms.GetProfile(ctx, "u1")
	require.ErrorIs(t, err, errs.ProfileNotFound)
	quests, err := ms.PendingQuests(ctx, "u1", "2026-01-01")
	require.NoError(t, err)
	require.Empty(t, quests)
}

func TestInsertAchievementIfAbsent_Deduplicates(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	err := ms.WithProfile(ctx, "u1", true, func(tx Tx) error {
		created, err := tx.InsertAchievementIfAbsent(&models.UserAchievement{UserID: "u1", AchievementTypeID: "a1"})
		require.NoError(t, err)
		require.True(t, created)

		// staged duplicate within the same unit of work
		created, err = tx.InsertAchievementIfAbsent(&models.UserAchievement{UserID: "u1", AchievementTypeID: "a1"})
		require.NoError(t, err)
		require.False(t, created)
		return nil
	})
	require.NoError(t, err)

	// committed duplicate across units of work
	err = ms.WithProfile(ctx, "u1", true, func(tx Tx) error {
		created, err := tx.InsertAchievementIfAbsent(&models.UserAchievement{UserID: "u1", AchievementTypeID: "a1"})
		require.NoError(t, err)
		require.False(t, created)

		unlocked, err := tx.UnlockedAchievementIDs()
		require.NoError(t, err)
		require.True(t, unlocked["a1"])
		return nil
	})
	require.NoError(t, err)
}

func TestExpireStaleQuests(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	err := ms.WithProfile(ctx, "u1", true, func(tx Tx) error {
		return tx.CreateQuests([]models.UserDailyQuest{
			{UserID: "u1", Type: models.QuestCheckBalance, Status: models.QuestStatusPending, QuestDate: "2026-01-01"},
			{UserID: "u1", Type: models.QuestSaveMoney, Status: models.QuestStatusCompleted, QuestDate: "2026-01-01"},
			{UserID: "u1", Type: models.QuestRecordExpense, Status: models.QuestStatusPending, QuestDate: "2026-01-05"},
		})
	})
	require.NoError(t, err)

	n, err := ms.ExpireStaleQuests(ctx, "2026-01-05")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	quests, err := ms.PendingQuests(ctx, "u1", "2026-01-01")
	require.NoError(t, err)
	for _, q := range quests {
		switch q.Type {
		case models.QuestCheckBalance:
			require.Equal(t, models.QuestStatusExpired, q.Status)
		case models.QuestSaveMoney:
			require.Equal(t, models.QuestStatusCompleted, q.Status)
		}
	}
}

func TestDecayInactiveHearts(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	stale := time.Now().UTC().AddDate(0, 0, -10)
	fresh := time.Now().UTC()

	for _, u := range []struct {
		id   string
		last time.Time
	}{{"idle", stale}, {"active", fresh}} {
		last := u.last
		err := ms.WithProfile(ctx, u.id, true, func(tx Tx) error {
			p := tx.Profile()
			p.LastEntryDate = &last
			return tx.SaveProfile(p)
		})
		require.NoError(t, err)
	}

	n, err := ms.DecayInactiveHearts(ctx, 3, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	idle, err := ms.GetProfile(ctx, "idle")
	require.NoError(t, err)
	require.Equal(t, 49, idle.HeartLevel)

	active, err := ms.GetProfile(ctx, "active")
	require.NoError(t, err)
	require.Equal(t, 50, active.HeartLevel)
}
