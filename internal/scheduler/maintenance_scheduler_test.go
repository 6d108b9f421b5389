package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	calls int
	err   error
}

func (f *fakeReconciler) ReconcileRatings() (int, error) {
	f.calls++
	return 3, f.err
}

type fakeCleaner struct {
	retentions []time.Duration
}

func (f *fakeCleaner) CleanupRead(retention time.Duration) (int64, error) {
	f.retentions = append(f.retentions, retention)
	return 1, nil
}

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:                   true,
		RatingReconcileCron:       "0 3 * * *",
		NotificationCleanupCron:   "30 3 * * *",
		NotificationRetentionDays: 90,
	}
}

func TestMaintenanceScheduler_Jobs(t *testing.T) {
	ratings := &fakeReconciler{}
	cleaner := &fakeCleaner{}
	s := NewMaintenanceScheduler(ratings, cleaner, testSchedulerConfig())

	s.reconcileRatings()
	ratings.err = errors.New("db down")
	s.reconcileRatings()
	assert.Equal(t, 2, ratings.calls)

	s.cleanupNotifications()
	require.Len(t, cleaner.retentions, 1)
	assert.Equal(t, 90*24*time.Hour, cleaner.retentions[0])
}

func TestMaintenanceScheduler_NonPositiveRetentionSkipsCleanup(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.NotificationRetentionDays = 0
	cleaner := &fakeCleaner{}

	NewMaintenanceScheduler(&fakeReconciler{}, cleaner, cfg).cleanupNotifications()
	assert.Empty(t, cleaner.retentions)
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	s := NewMaintenanceScheduler(&fakeReconciler{}, &fakeCleaner{}, testSchedulerConfig())
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

func TestMaintenanceScheduler_InvalidSchedule(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.NotificationCleanupCron = "every night"

	s := NewMaintenanceScheduler(&fakeReconciler{}, &fakeCleaner{}, cfg)
	assert.Error(t, s.Start())
}
