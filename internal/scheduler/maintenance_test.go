package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/tasks"
)

type stubUserLister struct {
	ids []uint
	err error
}

func (s *stubUserLister) UserIDs() ([]uint, error) {
	return s.ids, s.err
}

func newTestEnqueuer(t *testing.T) *tasks.Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := tasks.DefaultConfig()
	cfg.Workers = 1
	client, err := tasks.NewClient(dbPath, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{}, Config{
		CleanupSchedule: "0 3 * * *",
		RefreshSchedule: "0 * * * *",
		RetentionDays:   365,
	}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Len(t, s.NextRuns(), 2)

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRuns())
}

func TestSchedulerStartIdempotent(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{}, Config{
		CleanupSchedule: "0 3 * * *",
	}, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.NextRuns(), 1)
	s.Stop()
}

func TestSchedulerInvalidSchedule(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{}, Config{
		CleanupSchedule: "not a cron line",
	}, zap.NewNop())

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{}, Config{
		CleanupSchedule: "0 3 * * *",
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool {
		return !s.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunCleanupNowEnqueues(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{}, Config{
		RetentionDays: 30,
	}, zap.NewNop())

	// Enqueue goes straight to the tasks database; no scheduler start needed.
	s.RunCleanupNow()
}

func TestRefreshFanOut(t *testing.T) {
	s := NewMaintenanceScheduler(newTestEnqueuer(t), &stubUserLister{ids: []uint{1, 2}}, Config{}, zap.NewNop())

	// Should enqueue one task per user without error.
	s.enqueueRefresh()
}
