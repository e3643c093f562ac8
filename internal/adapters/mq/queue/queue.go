// Package queue provides the in-memory submission queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/pkg/metrics"
)

const defaultCapacity = 100_000

// Queue decouples submission intake from scoring.
type Queue interface {
	// Enqueue offers a submission to the queue without blocking.
	// Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, sub model.Submission) bool

	// Dequeue returns a channel workers read submissions from.
	Dequeue(ctx context.Context) <-chan model.Submission

	Len(ctx context.Context) int

	Close() error

	IsClosed() bool
}

// InMemorySubmissionQueue implements Queue over a buffered channel.
type InMemorySubmissionQueue struct {
	submissions chan model.Submission
	capacity    int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemorySubmissionQueue {
	q := &InMemorySubmissionQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.submissions = make(chan model.Submission, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue offers a submission without blocking.
func (q *InMemorySubmissionQueue) Enqueue(ctx context.Context, sub model.Submission) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.submissions <- sub:
		metrics.RecordQueueEnqueue()
		q.publishGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueRejection()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that yields submissions until the queue is
// closed and drained or ctx is cancelled.
func (q *InMemorySubmissionQueue) Dequeue(ctx context.Context) <-chan model.Submission {
	out := make(chan model.Submission)
	go func() {
		defer close(out)
		for sub := range q.submissions {
			select {
			case out <- sub:
				metrics.RecordQueueDequeue()
				q.publishGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued submissions.
func (q *InMemorySubmissionQueue) Len(_ context.Context) int {
	size := len(q.submissions)
	q.publishGauges()
	return size
}

// Close stops intake. Queued submissions remain drainable.
func (q *InMemorySubmissionQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.submissions)
	q.closed = true
	return nil
}

// IsClosed reports whether intake has stopped.
func (q *InMemorySubmissionQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemorySubmissionQueue) publishGauges() {
	size := len(q.submissions)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
