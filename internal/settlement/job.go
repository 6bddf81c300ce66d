package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/logger"
)

// Job runs a settlement pass on each tick. After a pass fails to list its
// candidates the job skips ticks for an exponentially growing delay.
type Job struct {
	svc       Service
	now       func() time.Time
	baseDelay time.Duration

	mu       sync.Mutex
	failures int
	nextRun  time.Time
}

// NewJob creates the settlement job. baseDelay is the first backoff step.
func NewJob(svc Service, baseDelay time.Duration, clock func() time.Time) *Job {
	if clock == nil {
		clock = time.Now
	}
	return &Job{svc: svc, now: clock, baseDelay: baseDelay}
}

// Process implements worker.Job
func (j *Job) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := j.now()

	j.mu.Lock()
	if now.Before(j.nextRun) {
		j.mu.Unlock()
		log.Debug(LogMsgPassSkippedBackoff, "next_run", j.nextRun)
		return nil
	}
	j.mu.Unlock()

	_, err := j.svc.RunSettlementPass(ctx, now)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.failures++
		delay := event.CalculateRetryDelay(j.baseDelay, j.failures)
		j.nextRun = now.Add(delay)
		log.Warn(LogMsgPassBackingOff, "failures", j.failures, "delay", delay, "error", err)
		return err
	}
	j.failures = 0
	j.nextRun = time.Time{}
	return nil
}

// Name implements worker.Named
func (j *Job) Name() string {
	return JobNameSettlement
}
