// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"finance-gamification/logger"
	"finance-gamification/utils"
)

// MaintenancePolicy holds the scheduled-housekeeping knobs. The heart decay
// schedule is deliberately configuration, not constants.
type MaintenancePolicy struct {
	HeartDecayAmount    int
	HeartDecayAfterDays int
}

// StartMaintenanceScheduler runs the background housekeeping that lazy
// evaluation alone would leave behind: quests of users who never came back
// still expire, and hearts of inactive users decay.
func (s *GamificationService) StartMaintenanceScheduler(policy MaintenancePolicy) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Hourly: expire pending quests whose local day is over everywhere.
	// The -1 day cutoff keeps quests alive through every timezone's midnight;
	// per-user lazy expiry inside the unit of work handles the exact boundary.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := utils.DateString(utils.DateInZone(time.Now(), "UTC").AddDate(0, 0, -1))
			n, err := s.Store.ExpireStaleQuests(context.Background(), cutoff)
			if err != nil {
				logger.Logger.Error("stale quest expiry failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Logger.Info("expired stale quests", zap.Int64("count", n), zap.String("before", cutoff))
			}
		}),
	)

	// Daily: heart decay for inactive users.
	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if policy.HeartDecayAmount <= 0 {
				return
			}
			n, err := s.Store.DecayInactiveHearts(context.Background(), policy.HeartDecayAfterDays, policy.HeartDecayAmount)
			if err != nil {
				logger.Logger.Error("heart decay failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Logger.Info("decayed inactive hearts",
					zap.Int64("profiles", n),
					zap.Int("amount", policy.HeartDecayAmount),
				)
			}
		}),
	)
}
