// Package scheduler feeds periodic jobs into the worker pool.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/logger"
	"github.com/osse101/PrizeArena_Go/internal/worker"
)

const (
	LogMsgTickSkipped    = "Scheduler tick skipped, worker queue full"
	LogMsgRunStillActive = "Scheduler tick skipped, previous run still active"
	LogMsgJobsTriggered  = "Triggered scheduled jobs"
)

// Scheduler runs each registered job on its own ticker. A job is never
// queued again while an earlier run of it is queued or executing.
type Scheduler struct {
	workerPool *worker.Pool
	mu         sync.Mutex
	entries    []*entry
	quit       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// entry wraps a job so the scheduler knows when its run has finished.
type entry struct {
	job     worker.Job
	running atomic.Bool
}

func (e *entry) Process(ctx context.Context) error {
	defer e.running.Store(false)
	return e.job.Process(ctx)
}

func (e *entry) Name() string { return worker.JobName(e.job) }

// New creates a scheduler that enqueues into pool.
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule runs job every interval, the first time one interval from now.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	e := &entry{job: job}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.dispatch(e)
			case <-s.quit:
				return
			}
		}
	}()
}

// TriggerAll queues one immediate run of every scheduled job and returns how many were queued.
func (s *Scheduler) TriggerAll() int {
	s.mu.Lock()
	entries := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	queued := 0
	for _, e := range entries {
		if s.dispatch(e) {
			queued++
		}
	}
	logger.Info(LogMsgJobsTriggered, "queued", queued, "jobs", len(entries))
	return queued
}

// RunNow enqueues an unscheduled job once.
func (s *Scheduler) RunNow(job worker.Job) bool {
	return s.workerPool.TryEnqueue(job)
}

func (s *Scheduler) dispatch(e *entry) bool {
	if !e.running.CompareAndSwap(false, true) {
		logger.Debug(LogMsgRunStillActive, "job", e.Name())
		return false
	}
	if !s.workerPool.TryEnqueue(e) {
		e.running.Store(false)
		logger.Warn(LogMsgTickSkipped, "job", e.Name())
		return false
	}
	return true
}

// Stop halts every ticker. Runs already queued still execute.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}
