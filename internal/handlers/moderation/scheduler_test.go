package moderation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleRequiresStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	if err := s.Schedule("job", time.Second, func(context.Context) {}); !errors.Is(err, ErrSchedulerStopped) {
		t.Fatalf("expected ErrSchedulerStopped, got %v", err)
	}
}

func TestScheduleRunsDetachedJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.after = func(time.Duration) <-chan time.Time {
		fire := make(chan time.Time, 1)
		fire <- time.Time{}
		return fire
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	var ran atomic.Int32
	var jobErr atomic.Value
	if err := s.Schedule("job", time.Minute, func(ctx context.Context) {
		ran.Add(1)
		if ctx.Err() != nil {
			jobErr.Store(ctx.Err())
		}
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.workersWg.Wait()

	if ran.Load() != 1 {
		t.Fatalf("job ran %d times, want 1", ran.Load())
	}
	if v := jobErr.Load(); v != nil {
		t.Fatalf("job context already done: %v", v)
	}
}

func TestStopAbandonsPendingJobs(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.after = func(time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	var ran atomic.Bool
	if err := s.Schedule("job", time.Hour, func(context.Context) { ran.Store(true) }); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if ran.Load() {
		t.Fatalf("pending job must be abandoned")
	}
	if err := s.Schedule("late", time.Second, func(context.Context) {}); !errors.Is(err, ErrSchedulerStopped) {
		t.Fatalf("schedule after stop: %v", err)
	}
}

func TestScheduleRecoversPanics(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.after = func(time.Duration) <-chan time.Time {
		fire := make(chan time.Time, 1)
		fire <- time.Time{}
		return fire
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	if err := s.Schedule("boom", time.Second, func(context.Context) { panic("boom") }); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.workersWg.Wait()
}
