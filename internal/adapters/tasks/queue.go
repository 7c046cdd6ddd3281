package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"conferencecentral/internal/domain"
)

// Queue is an in-process task queue. Enqueued tasks are drained by a single
// worker goroutine, so callers never block on email delivery. Tasks still in
// the buffer are drained before Close returns.
type Queue struct {
	emails  domain.EmailService
	logger  *slog.Logger
	jobs    chan domain.ConfirmationEmailData
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewQueue creates a queue with the given buffer size. Call Start to begin
// processing and Close during shutdown.
func NewQueue(emails domain.EmailService, bufferSize int, logger *slog.Logger) *Queue {
	return &Queue{
		emails: emails,
		logger: logger,
		jobs:   make(chan domain.ConfirmationEmailData, bufferSize),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for data := range q.jobs {
			if err := q.emails.SendConfirmationEmail(context.Background(), &data); err != nil {
				q.logger.Error("failed to send confirmation email", "email", data.Email, "error", err)
			}
		}
	}()
}

// EnqueueConfirmationEmail queues a confirmation email. It fails fast when
// the buffer is full rather than blocking the request that triggered it.
func (q *Queue) EnqueueConfirmationEmail(_ context.Context, data domain.ConfirmationEmailData) error {
	select {
	case q.jobs <- data:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Close stops accepting tasks and waits for the worker to drain the buffer.
func (q *Queue) Close() {
	q.closeMu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.closeMu.Unlock()
	q.wg.Wait()
}
