package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/infra"
)

const jobTimeout = 30 * time.Second

var ErrSchedulerStopped = errors.New("scheduler is not running")

// Scheduler runs one-shot deferred jobs, each on its own goroutine. Jobs are
// detached from the caller's context; pending ones are abandoned on Stop.
type Scheduler struct {
	after func(time.Duration) <-chan time.Time

	runMutex  sync.Mutex
	started   bool
	runCtx    context.Context
	runCancel context.CancelFunc
	workersWg sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{after: time.After}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	if s.started {
		return nil
	}

	s.runCtx, s.runCancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.getLogEntry().Debug("started")
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.runMutex.Lock()
	if !s.started {
		s.runMutex.Unlock()
		return nil
	}
	s.started = false
	cancel := s.runCancel
	s.runMutex.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.workersWg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		s.getLogEntry().Debug("stopped")
		return nil
	}
}

// Schedule runs job once after d. The job gets a fresh context bounded by
// jobTimeout and its panics are recovered.
func (s *Scheduler) Schedule(id string, d time.Duration, job func(ctx context.Context)) error {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	if !s.started {
		return ErrSchedulerStopped
	}

	runCtx := s.runCtx
	fire := s.after(d)
	s.workersWg.Add(1)
	go func() {
		defer s.workersWg.Done()
		defer infra.Recover(id)

		select {
		case <-runCtx.Done():
			s.getLogEntry().WithField("job", id).Debug("abandoned pending job")
			return
		case <-fire:
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), jobTimeout)
		defer cancel()
		job(ctx)
	}()
	return nil
}

func (s *Scheduler) getLogEntry() *log.Entry {
	return log.WithField("object", "Scheduler")
}
