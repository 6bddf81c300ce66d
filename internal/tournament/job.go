package tournament

import (
	"context"
	"time"
)

// ActivationJob flips upcoming tournaments to active once their window opens.
type ActivationJob struct {
	svc Service
	now func() time.Time
}

// NewActivationJob creates the periodic activation sweep
func NewActivationJob(svc Service, clock func() time.Time) *ActivationJob {
	if clock == nil {
		clock = time.Now
	}
	return &ActivationJob{svc: svc, now: clock}
}

// Process implements worker.Job
func (j *ActivationJob) Process(ctx context.Context) error {
	_, err := j.svc.ActivateStarted(ctx, j.now())
	return err
}

// Name implements worker.Named
func (j *ActivationJob) Name() string {
	return JobNameActivation
}
