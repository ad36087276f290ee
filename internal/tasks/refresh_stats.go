package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// StatisticsRefresher recomputes a user's statistics document from the
// current book collection.
type StatisticsRefresher interface {
	RefreshStatistics(userID uint) error
}

// RefreshStatsTask recomputes one user's statistics. The library service
// refreshes after every mutation already; this task is the periodic
// reconciliation that repairs any drift left behind by partial failures.
type RefreshStatsTask struct {
	UserID uint `json:"user_id"`
}

// Config returns the queue configuration for statistics refresh tasks.
func (t RefreshStatsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_stats",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// RefreshStatsProcessor creates a processor function for RefreshStatsTask.
func RefreshStatsProcessor(refresher StatisticsRefresher, logger *zap.Logger) backlite.QueueProcessor[RefreshStatsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task RefreshStatsTask) error {
		if refresher == nil {
			return fmt.Errorf("statistics refresher not configured")
		}

		if err := refresher.RefreshStatistics(task.UserID); err != nil {
			return fmt.Errorf("refresh stats for user %d: %w", task.UserID, err)
		}

		logger.Debug("statistics reconciled", zap.Uint("user_id", task.UserID))
		return nil
	}
}

// NewRefreshStatsQueue creates a backlite queue for statistics refresh
// tasks.
func NewRefreshStatsQueue(refresher StatisticsRefresher, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(RefreshStatsProcessor(refresher, logger))
}
