package queue

// Option applies a configuration option to the InMemorySubmissionQueue.
type Option func(*InMemorySubmissionQueue)

// WithCapacity bounds the number of queued submissions.
func WithCapacity(capacity int) Option {
	return func(q *InMemorySubmissionQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
