package scheduler

import (
	"time"

	"github.com/ciftci/ciftci-backend/config"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingReconciler rewrites every user's rating from the reviews table
type RatingReconciler interface {
	ReconcileRatings() (int, error)
}

// NotificationCleaner removes read notifications past the retention window
type NotificationCleaner interface {
	CleanupRead(retention time.Duration) (int64, error)
}

// MaintenanceScheduler runs the nightly housekeeping jobs
type MaintenanceScheduler struct {
	cron      *cron.Cron
	ratings   RatingReconciler
	cleaner   NotificationCleaner
	cfg       config.SchedulerConfig
	retention time.Duration
}

func NewMaintenanceScheduler(ratings RatingReconciler, cleaner NotificationCleaner, cfg config.SchedulerConfig) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:      cron.New(),
		ratings:   ratings,
		cleaner:   cleaner,
		cfg:       cfg,
		retention: time.Duration(cfg.NotificationRetentionDays) * 24 * time.Hour,
	}
}

// Start registers both jobs and starts the cron runner
func (s *MaintenanceScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.RatingReconcileCron, s.reconcileRatings); err != nil {
		logger.Error("Failed to add cron job for rating reconciliation", err, map[string]interface{}{
			"schedule": s.cfg.RatingReconcileCron,
		})
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.NotificationCleanupCron, s.cleanupNotifications); err != nil {
		logger.Error("Failed to add cron job for notification cleanup", err, map[string]interface{}{
			"schedule": s.cfg.NotificationCleanupCron,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", map[string]interface{}{
		"rating_reconcile_cron":     s.cfg.RatingReconcileCron,
		"notification_cleanup_cron": s.cfg.NotificationCleanupCron,
		"retention_days":            s.cfg.NotificationRetentionDays,
	})
	return nil
}

// Stop waits for a running job to finish
func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) reconcileRatings() {
	logger.Info("Starting scheduled rating reconciliation")

	count, err := s.ratings.ReconcileRatings()
	if err != nil {
		logger.Error("Scheduled rating reconciliation failed", err)
		return
	}

	logger.Info("Rating reconciliation finished", map[string]interface{}{
		"users": count,
	})
}

func (s *MaintenanceScheduler) cleanupNotifications() {
	if s.retention <= 0 {
		logger.Warn("Notification cleanup skipped: retention is not positive", map[string]interface{}{
			"retention_days": s.cfg.NotificationRetentionDays,
		})
		return
	}

	removed, err := s.cleaner.CleanupRead(s.retention)
	if err != nil {
		logger.Error("Scheduled notification cleanup failed", err)
		return
	}

	logger.Info("Notification cleanup finished", map[string]interface{}{
		"removed": removed,
	})
}
