package eventlog

import (
	"context"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/logger"
)

// CleanupJob purges audit entries past their retention on each scheduler tick.
type CleanupJob struct {
	service   Service
	retention time.Duration
}

// NewCleanupJob builds the job. A non-positive retention keeps everything.
func NewCleanupJob(service Service, retention time.Duration) *CleanupJob {
	return &CleanupJob{service: service, retention: retention}
}

// RetentionDays converts the configured day count into a retention window.
func RetentionDays(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx).With(LogFieldRetention, j.retention)

	start := time.Now()
	deleted, err := j.service.Purge(ctx, j.retention)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, time.Since(start))
		return err
	}

	if deleted > 0 {
		log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, deleted, LogFieldDuration, time.Since(start))
	}
	return nil
}

// Name implements worker.Named
func (j *CleanupJob) Name() string {
	return JobNameCleanup
}
