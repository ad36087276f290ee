// Package scheduler triggers the periodic maintenance jobs: the event
// retention sweep and the statistics reconciliation fan-out.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/tasks"
)

// TaskEnqueuer enqueues background tasks. Satisfied by *tasks.Client.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// UserLister enumerates the users whose statistics need reconciling.
// Satisfied by *library.Service.
type UserLister interface {
	UserIDs() ([]uint, error)
}

// Config holds the cron schedules and the event retention period.
type Config struct {
	CleanupSchedule string // 5-field cron expression
	RefreshSchedule string
	RetentionDays   int
}

// MaintenanceScheduler enqueues cleanup and reconciliation tasks on their
// configured cron schedules. The actual work runs on the task queue
// workers, not in the cron goroutine.
type MaintenanceScheduler struct {
	enqueuer TaskEnqueuer
	users    UserLister
	config   Config
	logger   *zap.Logger

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(enqueuer TaskEnqueuer, users UserLister, config Config, logger *zap.Logger) *MaintenanceScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		users:    users,
		config:   config,
		logger:   logger,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cron entries and begins the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.CleanupSchedule != "" {
		if _, err := s.cron.AddFunc(s.config.CleanupSchedule, s.enqueueCleanup); err != nil {
			return fmt.Errorf("invalid cleanup schedule '%s': %w", s.config.CleanupSchedule, err)
		}
	}
	if s.config.RefreshSchedule != "" {
		if _, err := s.cron.AddFunc(s.config.RefreshSchedule, s.enqueueRefresh); err != nil {
			return fmt.Errorf("invalid refresh schedule '%s': %w", s.config.RefreshSchedule, err)
		}
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("maintenance scheduler started",
		zap.String("cleanup_schedule", s.config.CleanupSchedule),
		zap.String("refresh_schedule", s.config.RefreshSchedule),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for any running cron
// callbacks to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	s.logger.Info("maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns when each registered job will next fire.
func (s *MaintenanceScheduler) NextRuns() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		next = append(next, entry.Next)
	}
	return next
}

// RunCleanupNow enqueues an immediate retention sweep.
func (s *MaintenanceScheduler) RunCleanupNow() {
	s.enqueueCleanup()
}

func (s *MaintenanceScheduler) enqueueCleanup() {
	_, err := s.enqueuer.Add(tasks.CleanupEventsTask{RetentionDays: s.config.RetentionDays}).Save()
	if err != nil {
		s.logger.Error("failed to enqueue event cleanup", zap.Error(err))
		return
	}
	s.logger.Debug("event cleanup enqueued", zap.Int("retention_days", s.config.RetentionDays))
}

func (s *MaintenanceScheduler) enqueueRefresh() {
	userIDs, err := s.users.UserIDs()
	if err != nil {
		s.logger.Error("failed to list users for statistics refresh", zap.Error(err))
		return
	}
	if len(userIDs) == 0 {
		return
	}

	refreshTasks := make([]backlite.Task, 0, len(userIDs))
	for _, id := range userIDs {
		refreshTasks = append(refreshTasks, tasks.RefreshStatsTask{UserID: id})
	}
	if _, err := s.enqueuer.Add(refreshTasks...).Save(); err != nil {
		s.logger.Error("failed to enqueue statistics refresh", zap.Error(err))
		return
	}
	s.logger.Debug("statistics refresh enqueued", zap.Int("users", len(userIDs)))
}
