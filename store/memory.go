package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finance-gamification/errs"
	"finance-gamification/models"
	"finance-gamification/utils"
)

// MemoryStore is a map-backed Store used by tests and local development. A
// per-user mutex serializes units of work the same way the Postgres row lock
// does; writes are staged on the Tx and only applied when fn succeeds.
type MemoryStore struct {
	mu           sync.Mutex
	userMu       map[string]*sync.Mutex
	profiles     map[string]*models.GamificationProfile
	quests       map[string]map[string]*models.UserDailyQuest
	achievements map[string]map[string]*models.UserAchievement
	templates    []models.DailyQuestTemplate
	achievementDefs []models.AchievementType
	stats        map[string]*models.FinanceStatsMirror
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		userMu:       make(map[string]*sync.Mutex),
		profiles:     make(map[string]*models.GamificationProfile),
		quests:       make(map[string]map[string]*models.UserDailyQuest),
		achievements: make(map[string]map[string]*models.UserAchievement),
		stats:        make(map[string]*models.FinanceStatsMirror),
	}
}

func (s *MemoryStore) SeedCatalog(_ context.Context, templates []models.DailyQuestTemplate, achievements []models.AchievementType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range templates {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.templates = append(s.templates, t)
	}
	for _, a := range achievements {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		s.achievementDefs = append(s.achievementDefs, a)
	}
	return nil
}

func (s *MemoryStore) SetStatsMirror(m *models.FinanceStatsMirror) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[m.UserID] = m
}

func (s *MemoryStore) lockUser(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.userMu[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.userMu[userID] = mu
	}
	return mu
}

func (s *MemoryStore) WithProfile(ctx context.Context, userID string, createIfMissing bool, fn func(tx Tx) error) error {
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	s.mu.Lock()
	existing, ok := s.profiles[userID]
	s.mu.Unlock()

	var working models.GamificationProfile
	if ok {
		working = *existing
	} else {
		if !createIfMissing {
			return errs.ProfileNotFound
		}
		working = models.GamificationProfile{
			ID:         uuid.NewString(),
			UserID:     userID,
			Level:      1,
			HeartLevel: 50,
			Timezone:   "UTC",
		}
	}

	tx := &memTx{store: s, userID: userID, profile: &working, saved: make(map[string]models.UserDailyQuest)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*models.GamificationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, ok := s.profiles[userID]
	if !ok {
		return nil, errs.ProfileNotFound
	}
	cp := *prof
	return &cp, nil
}

func (s *MemoryStore) PendingQuests(_ context.Context, userID, date string) ([]models.UserDailyQuest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserDailyQuest
	for _, q := range s.quests[userID] {
		if q.QuestDate == date {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *MemoryStore) RecentAchievements(_ context.Context, userID string, limit int) ([]models.UnlockedAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UnlockedAchievement
	for _, ua := range s.achievements[userID] {
		for _, def := range s.achievementDefs {
			if def.ID == ua.AchievementTypeID {
				out = append(out, models.UnlockedAchievement{AchievementType: def, UnlockedAt: ua.UnlockedAt})
			}
		}
	}
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].UnlockedAt.After(out[i].UnlockedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ActiveQuestTemplates(_ context.Context) ([]models.DailyQuestTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DailyQuestTemplate
	for _, t := range s.templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) ActiveAchievements(_ context.Context) ([]models.AchievementType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AchievementType
	for _, a := range s.achievementDefs {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) StatsMirror(_ context.Context, userID string) (*models.FinanceStatsMirror, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.stats[userID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) CreateQuestTemplate(_ context.Context, tmpl *models.DailyQuestTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	s.templates = append(s.templates, *tmpl)
	return nil
}

func (s *MemoryStore) ExpireStaleQuests(_ context.Context, before string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, byID := range s.quests {
		for _, q := range byID {
			if q.Status == models.QuestStatusPending && q.QuestDate < before {
				q.Status = models.QuestStatusExpired
				n++
			}
		}
	}
	return n, nil
}

func (s *MemoryStore) DecayInactiveHearts(_ context.Context, inactiveDays, amount int) (int64, error) {
	cutoff := utils.DateInZone(time.Now(), "UTC").AddDate(0, 0, -inactiveDays)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.profiles {
		if p.HeartLevel > 0 && p.LastEntryDate != nil && p.LastEntryDate.Before(cutoff) {
			p.HeartLevel -= amount
			if p.HeartLevel < 0 {
				p.HeartLevel = 0
			}
			n++
		}
	}
	return n, nil
}

// memTx stages all writes; nothing is visible to readers until commit.
type memTx struct {
	store   *MemoryStore
	userID  string
	profile *models.GamificationProfile
	created []models.UserDailyQuest
	saved   map[string]models.UserDailyQuest
	unlocks []models.UserAchievement
}

func (t *memTx) Profile() *models.GamificationProfile {
	return t.profile
}

func (t *memTx) SaveProfile(p *models.GamificationProfile) error {
	t.profile = p
	return nil
}

func (t *memTx) QuestsForDate(date string) ([]models.UserDailyQuest, error) {
	t.store.mu.Lock()
	var out []models.UserDailyQuest
	for _, q := range t.store.quests[t.userID] {
		if q.QuestDate != date {
			continue
		}
		if staged, ok := t.saved[q.ID]; ok {
			out = append(out, staged)
		} else {
			out = append(out, *q)
		}
	}
	t.store.mu.Unlock()
	for _, q := range t.created {
		if q.QuestDate == date {
			if staged, ok := t.saved[q.ID]; ok {
				q = staged
			}
			out = append(out, q)
		}
	}
	return out, nil
}

func (t *memTx) ExpirePendingBefore(date string) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	var n int64
	for _, q := range t.store.quests[t.userID] {
		cur := *q
		if staged, ok := t.saved[q.ID]; ok {
			cur = staged
		}
		if cur.Status == models.QuestStatusPending && cur.QuestDate < date {
			cur.Status = models.QuestStatusExpired
			t.saved[cur.ID] = cur
			n++
		}
	}
	return n, nil
}

func (t *memTx) CreateQuests(quests []models.UserDailyQuest) error {
	for i := range quests {
		if quests[i].ID == "" {
			quests[i].ID = uuid.NewString()
		}
	}
	t.created = append(t.created, quests...)
	return nil
}

func (t *memTx) SaveQuest(q *models.UserDailyQuest) error {
	t.saved[q.ID] = *q
	return nil
}

func (t *memTx) UnlockedAchievementIDs() (map[string]bool, error) {
	unlocked := make(map[string]bool)
	t.store.mu.Lock()
	for id := range t.store.achievements[t.userID] {
		unlocked[id] = true
	}
	t.store.mu.Unlock()
	for _, ua := range t.unlocks {
		unlocked[ua.AchievementTypeID] = true
	}
	return unlocked, nil
}

func (t *memTx) InsertAchievementIfAbsent(ua *models.UserAchievement) (bool, error) {
	t.store.mu.Lock()
	_, exists := t.store.achievements[t.userID][ua.AchievementTypeID]
	t.store.mu.Unlock()
	if exists {
		return false, nil
	}
	for _, staged := range t.unlocks {
		if staged.AchievementTypeID == ua.AchievementTypeID {
			return false, nil
		}
	}
	if ua.ID == "" {
		ua.ID = uuid.NewString()
	}
	if ua.UnlockedAt.IsZero() {
		ua.UnlockedAt = time.Now()
	}
	t.unlocks = append(t.unlocks, *ua)
	return true, nil
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	cp := *t.profile
	t.store.profiles[t.userID] = &cp

	byID := t.store.quests[t.userID]
	if byID == nil {
		byID = make(map[string]*models.UserDailyQuest)
		t.store.quests[t.userID] = byID
	}
	for _, q := range t.created {
		if staged, ok := t.saved[q.ID]; ok {
			q = staged
		}
		qq := q
		byID[q.ID] = &qq
	}
	for id, q := range t.saved {
		qq := q
		byID[id] = &qq
	}

	unlocked := t.store.achievements[t.userID]
	if unlocked == nil {
		unlocked = make(map[string]*models.UserAchievement)
		t.store.achievements[t.userID] = unlocked
	}
	for _, ua := range t.unlocks {
		cpUA := ua
		unlocked[ua.AchievementTypeID] = &cpUA
	}
}
