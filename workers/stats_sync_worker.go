// workers/stats_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-gamification/logger"
	"finance-gamification/models"
)

// StatsSyncWorker mirrors per-user activity counters from the finance service
// into finance_stats_mirrors. The mirror backfills achievement predicates
// (transactions-count etc.) when an activity arrives without inline counters.
type StatsSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewStatsSyncWorker(db *gorm.DB, baseURL, endpointPath, serviceToken string, interval time.Duration) *StatsSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsSyncWorker{
		db:           db,
		interval:     interval,
		baseURL:      baseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *StatsSyncWorker) Start(ctx context.Context) {
	logger.Logger.Info("starting finance stats sync worker", zap.String("base_url", w.baseURL))
	go w.run(ctx)
}

func (w *StatsSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		logger.Logger.Warn("initial stats sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				logger.Logger.Error("stats sync batch failed", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Logger.Info("finance stats sync worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent SyncedAt from the local mirror table.
func (w *StatsSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(synced_at) FROM finance_stats_mirrors").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *StatsSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid finance service URL %q: %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to finance service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("finance service non-200 response: %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Stats []models.FinanceStatsMirror `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode finance service response: %w", err)
	}
	if len(response.Stats) == 0 {
		return nil
	}

	var upserts, failures int
	for _, remote := range response.Stats {
		mirror := models.FinanceStatsMirror{
			UserID:            remote.UserID,
			TotalTransactions: remote.TotalTransactions,
			TotalExpenses:     remote.TotalExpenses,
			TotalIncomes:      remote.TotalIncomes,
			BalanceChecks:     remote.BalanceChecks,
			TotalSaved:        remote.TotalSaved,
			SyncedAt:          remote.SyncedAt,
		}
		err := w.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_transactions", "total_expenses", "total_incomes",
				"balance_checks", "total_saved", "synced_at", "updated_at",
			}),
		}).Create(&mirror).Error
		if err != nil {
			failures++
			logger.Logger.Warn("stats mirror upsert failed", zap.String("user_id", remote.UserID), zap.Error(err))
			continue
		}
		upserts++
	}

	logger.Logger.Info("stats sync batch processed",
		zap.Int("upserts", upserts),
		zap.Int("failures", failures),
	)
	return nil
}
