package actor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

type scheduleFunc func()

// Scheduler runs background work on behalf of an actor, outside its mailbox.
type Scheduler interface {
	Schedule(f scheduleFunc)
	// Wait blocks until all scheduled tasks have returned.
	Wait()
}

type scheduler struct {
	ctx      context.Context
	log      *slog.Logger
	sem      *semaphore.Weighted
	inflight atomic.Int32
	wg       sync.WaitGroup

	actorID string
	metrics ActorMetrics
}

// Schedule runs f asynchronously. Tasks beyond the concurrency limit wait
// for a free slot; tasks not yet started when ctx is cancelled are dropped.
func (s *scheduler) Schedule(f scheduleFunc) {
	if s.ctx.Err() != nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.sem != nil {
			if err := s.sem.Acquire(s.ctx, 1); err != nil {
				return
			}
			defer s.sem.Release(1)
		}

		count := s.inflight.Add(1)
		s.metrics.SchedulerInflight(s.actorID, int(count))
		defer func() {
			count := s.inflight.Add(-1)
			s.metrics.SchedulerInflight(s.actorID, int(count))
		}()

		s.runTask(f)
	}()
}

func (s *scheduler) runTask(f scheduleFunc) {
	defer s.metrics.SchedulerTaskDuration().ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.SchedulerTaskCompleted(false)
			s.log.Error("scheduled task panicked", slog.Any("recovered", r))
		}
	}()

	f()
	s.metrics.SchedulerTaskCompleted(true)
}

func (s *scheduler) Wait() { s.wg.Wait() }

// newScheduler creates a scheduler that runs at most max tasks at once.
// If max <= 0, concurrency is unlimited.
func newScheduler(ctx context.Context, log *slog.Logger, max int, actorID string, m ActorMetrics) *scheduler {
	var sem *semaphore.Weighted
	if max > 0 {
		sem = semaphore.NewWeighted(int64(max))
	}
	if m == nil {
		m = NopActorMetrics()
	}
	return &scheduler{
		ctx:     ctx,
		log:     log,
		sem:     sem,
		actorID: actorID,
		metrics: m,
	}
}
