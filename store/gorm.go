package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-gamification/errs"
	"finance-gamification/models"
	"finance-gamification/utils"
)

// GormStore is the Postgres-backed Store. Per-profile serialization comes from
// a SELECT ... FOR UPDATE on the profile row, held for the duration of the
// transaction; conflicting units of work queue up on the row lock.
type GormStore struct {
	DB      *gorm.DB
	Retries int
}

func NewGormStore(db *gorm.DB, retries int) *GormStore {
	if retries < 1 {
		retries = 1
	}
	return &GormStore{DB: db, Retries: retries}
}

func (s *GormStore) WithProfile(ctx context.Context, userID string, createIfMissing bool, fn func(tx Tx) error) error {
	for attempt := 0; attempt < s.Retries; attempt++ {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var prof models.GamificationProfile
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", userID).
				First(&prof).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if !createIfMissing {
					return errs.ProfileNotFound
				}
				prof = models.GamificationProfile{
					ID:         uuid.NewString(),
					UserID:     userID,
					Level:      1,
					HeartLevel: 50,
					Timezone:   "UTC",
				}
				// A concurrent first activity can race this insert; the unique
				// index rejects the loser and the retry loop picks up the row.
				if err := tx.Create(&prof).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			return fn(&gormTx{db: tx, profile: &prof})
		})
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
	}
	return errs.ConcurrencyConflict
}

// isRetryable covers Postgres serialization/deadlock failures plus the
// duplicate-key race on concurrent profile creation.
func isRetryable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "idx_gamification_profiles_user_id")
}

func (s *GormStore) GetProfile(ctx context.Context, userID string) (*models.GamificationProfile, error) {
	var prof models.GamificationProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *GormStore) PendingQuests(ctx context.Context, userID, date string) ([]models.UserDailyQuest, error) {
	var quests []models.UserDailyQuest
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND quest_date = ?", userID, date).
		Order("created_at ASC").
		Find(&quests).Error
	return quests, err
}

func (s *GormStore) RecentAchievements(ctx context.Context, userID string, limit int) ([]models.UnlockedAchievement, error) {
	q := s.DB.WithContext(ctx).
		Table("user_achievements ua").
		Select("at.*, ua.unlocked_at").
		Joins("INNER JOIN achievement_types at ON at.id = ua.achievement_type_id").
		Where("ua.user_id = ?", userID).
		Order("ua.unlocked_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var unlocked []models.UnlockedAchievement
	err := q.Scan(&unlocked).Error
	return unlocked, err
}

func (s *GormStore) ActiveQuestTemplates(ctx context.Context) ([]models.DailyQuestTemplate, error) {
	var templates []models.DailyQuestTemplate
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&templates).Error
	return templates, err
}

func (s *GormStore) ActiveAchievements(ctx context.Context) ([]models.AchievementType, error) {
	var defs []models.AchievementType
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&defs).Error
	return defs, err
}

func (s *GormStore) StatsMirror(ctx context.Context, userID string) (*models.FinanceStatsMirror, error) {
	var mirror models.FinanceStatsMirror
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&mirror).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mirror, nil
}

func (s *GormStore) CreateQuestTemplate(ctx context.Context, tmpl *models.DailyQuestTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	return s.DB.WithContext(ctx).Create(tmpl).Error
}

func (s *GormStore) ExpireStaleQuests(ctx context.Context, before string) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.UserDailyQuest{}).
		Where("status = ? AND quest_date < ?", models.QuestStatusPending, before).
		Update("status", models.QuestStatusExpired)
	return res.RowsAffected, res.Error
}

func (s *GormStore) DecayInactiveHearts(ctx context.Context, inactiveDays, amount int) (int64, error) {
	cutoff := utils.DateInZone(time.Now(), "UTC").AddDate(0, 0, -inactiveDays)
	res := s.DB.WithContext(ctx).Exec(
		`UPDATE gamification_profiles
		 SET heart_level = GREATEST(heart_level - ?, 0), updated_at = NOW()
		 WHERE deleted_at IS NULL AND heart_level > 0 AND last_entry_date < ?`,
		amount, cutoff,
	)
	return res.RowsAffected, res.Error
}

// SeedCatalog upserts the default quest templates and achievement triggers.
// Existing rows (matched by code) are left untouched so operators can tune
// rewards in the DB without boot reverting them.
func (s *GormStore) SeedCatalog(ctx context.Context, templates []models.DailyQuestTemplate, achievements []models.AchievementType) error {
	for i := range templates {
		if templates[i].ID == "" {
			templates[i].ID = uuid.NewString()
		}
	}
	for i := range achievements {
		if achievements[i].ID == "" {
			achievements[i].ID = uuid.NewString()
		}
	}
	db := s.DB.WithContext(ctx)
	if len(templates) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&templates).Error; err != nil {
			return err
		}
	}
	if len(achievements) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&achievements).Error; err != nil {
			return err
		}
	}
	return nil
}

type gormTx struct {
	db      *gorm.DB
	profile *models.GamificationProfile
}

func (t *gormTx) Profile() *models.GamificationProfile {
	return t.profile
}

func (t *gormTx) SaveProfile(p *models.GamificationProfile) error {
	return t.db.Save(p).Error
}

func (t *gormTx) QuestsForDate(date string) ([]models.UserDailyQuest, error) {
	var quests []models.UserDailyQuest
	err := t.db.
		Where("user_id = ? AND quest_date = ?", t.profile.UserID, date).
		Order("created_at ASC").
		Find(&quests).Error
	return quests, err
}

func (t *gormTx) ExpirePendingBefore(date string) (int64, error) {
	res := t.db.Model(&models.UserDailyQuest{}).
		Where("user_id = ? AND status = ? AND quest_date < ?", t.profile.UserID, models.QuestStatusPending, date).
		Update("status", models.QuestStatusExpired)
	return res.RowsAffected, res.Error
}

func (t *gormTx) CreateQuests(quests []models.UserDailyQuest) error {
	if len(quests) == 0 {
		return nil
	}
	return t.db.Create(&quests).Error
}

func (t *gormTx) SaveQuest(q *models.UserDailyQuest) error {
	return t.db.Save(q).Error
}

func (t *gormTx) UnlockedAchievementIDs() (map[string]bool, error) {
	var ids []string
	err := t.db.Model(&models.UserAchievement{}).
		Where("user_id = ?", t.profile.UserID).
		Pluck("achievement_type_id", &ids).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (t *gormTx) InsertAchievementIfAbsent(ua *models.UserAchievement) (bool, error) {
	if ua.ID == "" {
		ua.ID = uuid.NewString()
	}
	res := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_type_id"}},
		DoNothing: true,
	}).Create(ua)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
