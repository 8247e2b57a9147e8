package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/vnkhanh/kids-story-backend/pkg/logger"
)

const CleanupInterval = 6 * time.Hour

// SessionCleaner deletes sessions past their expiry
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// CleanupJob removes expired sessions every CleanupInterval, starting right away.
type CleanupJob struct {
	scheduler gocron.Scheduler
	cleaner   SessionCleaner
	log       logger.Logger
}

func NewCleanupJob(cleaner SessionCleaner, log logger.Logger) (*CleanupJob, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	return &CleanupJob{
		scheduler: scheduler,
		cleaner:   cleaner,
		log:       log.WithComponent("CleanupJob"),
	}, nil
}

func (j *CleanupJob) Start(ctx context.Context) error {
	_, err := j.scheduler.NewJob(
		gocron.DurationJob(CleanupInterval),
		gocron.NewTask(func() { j.Run(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	j.scheduler.Start()
	j.log.Info("Session cleanup scheduled", "every", CleanupInterval.String())
	return nil
}

// Run deletes expired sessions once
func (j *CleanupJob) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	deleted, err := j.cleaner.CleanupExpired(cleanupCtx)
	if err != nil {
		j.log.Error("Failed to delete expired sessions", "error", err)
		return
	}

	if deleted > 0 {
		j.log.Info("Deleted expired sessions", "rows_deleted", deleted)
	}
}

func (j *CleanupJob) Stop() error {
	return j.scheduler.Shutdown()
}
