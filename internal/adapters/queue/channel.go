// Package queue runs notification jobs in-process on a bounded channel.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"eventhub/internal/domain"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("job queue is closed")

const defaultJobTimeout = 30 * time.Second

// Channel is a domain.JobQueue backed by a buffered channel and drained by Run.
type Channel struct {
	mu         sync.RWMutex
	closed     bool
	jobs       chan domain.EventCreatedJob
	logger     *slog.Logger
	jobTimeout time.Duration
}

// NewChannel returns a queue that buffers up to size jobs.
func NewChannel(size int, logger *slog.Logger) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{
		jobs:       make(chan domain.EventCreatedJob, size),
		logger:     logger,
		jobTimeout: defaultJobTimeout,
	}
}

// Submit buffers job without waiting. It returns domain.ErrQueueFull when the buffer is full.
func (q *Channel) Submit(ctx context.Context, job domain.EventCreatedJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Close stops accepting jobs. Run returns once the jobs already buffered are handled.
func (q *Channel) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Len reports the number of buffered jobs.
func (q *Channel) Len() int { return len(q.jobs) }

// Run hands each job to handler until Close is called and the buffer is empty.
// Handler errors are logged; jobs are not retried. Cancelling ctx does not stop
// Run, so shutdown can drain whatever requests queued before Close.
func (q *Channel) Run(ctx context.Context, handler domain.NotificationService) error {
	base := context.WithoutCancel(ctx)
	for job := range q.jobs {
		q.handle(base, handler, job)
	}
	return nil
}

func (q *Channel) handle(ctx context.Context, handler domain.NotificationService, job domain.EventCreatedJob) {
	ctx, cancel := context.WithTimeout(ctx, q.jobTimeout)
	defer cancel()
	start := time.Now()
	if err := handler.HandleEventCreated(ctx, job); err != nil {
		q.logger.ErrorContext(ctx, "notification job failed", "event_id", job.EventID, "err", err)
		return
	}
	q.logger.DebugContext(ctx, "notification job done", "event_id", job.EventID, "duration_ms", time.Since(start).Milliseconds())
}
