package cache

import (
	"context"
	"encoding/json"
	"time"

	"finance-gamification/models"
)

const statusPrefix = "status"

// GetStatus returns the cached display snapshot for a user, if any.
func GetStatus(ctx context.Context, userID string) (*models.GamificationStatus, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, Key(statusPrefix, userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var status models.GamificationStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, false
	}
	return &status, true
}

func SetStatus(ctx context.Context, userID string, status *models.GamificationStatus, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(status)
	if err != nil {
		return
	}
	_ = client.Set(ctx, Key(statusPrefix, userID), data, ttl).Err()
}

// InvalidateStatus drops the snapshot after a unit of work commits.
func InvalidateStatus(ctx context.Context, userID string) {
	if client == nil {
		return
	}
	_ = client.Del(ctx, Key(statusPrefix, userID)).Err()
}
