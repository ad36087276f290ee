package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// EventSweeper provides the ability to delete old history events.
type EventSweeper interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupEventsTask removes history events older than the configured
// retention period. This is the only path that ever deletes events.
type CleanupEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for event cleanup tasks.
func (t CleanupEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupEventsProcessor creates a processor function for CleanupEventsTask.
func CleanupEventsProcessor(sweeper EventSweeper, logger *zap.Logger) backlite.QueueProcessor[CleanupEventsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task CleanupEventsTask) error {
		if sweeper == nil {
			return fmt.Errorf("event sweeper not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 365
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := sweeper.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup events: %w", err)
		}

		logger.Info("event retention sweep completed",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays),
		)
		return nil
	}
}

// NewCleanupEventsQueue creates a backlite queue for event cleanup tasks.
func NewCleanupEventsQueue(sweeper EventSweeper, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupEventsProcessor(sweeper, logger))
}
