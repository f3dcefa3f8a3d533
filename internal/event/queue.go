package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/bot"
	"github.com/iamwavecut/ngmod/internal/infra"
)

const (
	DefaultSize    = 1024
	DefaultWorkers = 8

	profileInterval = 5 * time.Minute
	replyTimeout    = 5 * time.Second
)

type ProcessFunc func(ctx context.Context, u *bot.Update) error

// Queue buffers gateway updates and drains them with a fixed pool of workers.
type Queue struct {
	q       chan *bot.Update
	workers int
	process ProcessFunc

	runMutex  sync.Mutex
	started   bool
	runCancel context.CancelFunc
	workersWg sync.WaitGroup
}

func NewQueue(size, workers int, process ProcessFunc) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Queue{
		q:       make(chan *bot.Update, size),
		workers: workers,
		process: process,
	}
}

// Enqueue never blocks; it reports false and drops u when the buffer is full.
func (q *Queue) Enqueue(u *bot.Update) bool {
	if u == nil {
		return false
	}
	if u.ReceivedAt.IsZero() {
		u.ReceivedAt = time.Now()
	}
	select {
	case q.q <- u:
		return true
	default:
		l.WithField("kind", u.Kind()).Warn("queue is full, dropping update")
		if u.Command != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
				defer cancel()
				bot.ReplyUnprocessed(ctx, u)
			}()
		}
		return false
	}
}

func (q *Queue) Len() int {
	return len(q.q)
}

func (q *Queue) Start(ctx context.Context) error {
	q.runMutex.Lock()
	defer q.runMutex.Unlock()
	if q.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	q.runCancel = cancel

	for i := 0; i < q.workers; i++ {
		q.workersWg.Add(1)
		id := fmt.Sprintf("event_worker_%d", i)
		go infra.GoRecoverable(-1, id, func() {
			q.run(runCtx)
			q.workersWg.Done()
		})
	}

	q.workersWg.Add(1)
	go func() {
		defer q.workersWg.Done()
		ticker := time.NewTicker(profileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if qlen := q.Len(); qlen > 0 {
					l.Debugf("unprocessed queue length: %d", qlen)
				}
			}
		}
	}()

	q.started = true
	l.WithField("workers", q.workers).Debug("started")
	return nil
}

// Stop halts the workers; updates still buffered are dropped.
func (q *Queue) Stop(ctx context.Context) error {
	q.runMutex.Lock()
	if !q.started {
		q.runMutex.Unlock()
		return nil
	}
	q.started = false
	cancel := q.runCancel
	q.runMutex.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.workersWg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		l.Info("shutting down event workers")
		return nil
	}
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-q.q:
			if err := q.process(ctx, u); err != nil {
				l.WithError(err).WithField("kind", u.Kind()).Error("cant process update")
			}
		}
	}
}

var l = log.WithField("object", "Queue")
