package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/pkg/metrics"
)

// defaultShardCount balances lock contention against memory overhead
// for the expected user population.
const defaultShardCount = 32

// shard holds the histories for a slice of the user space.
type shard struct {
	mu      sync.RWMutex
	history map[string][]model.Submission
}

// MemStore is a sharded in-memory SubmissionStore. Users are assigned
// to shards by FNV-1a hash of the user ID so concurrent writers for
// different users rarely contend.
type MemStore struct {
	shards     []*shard
	shardCount int
	count      atomic.Int64
	users      atomic.Int64
}

// NewMemStore creates an in-memory submission store with configuration options.
func NewMemStore(opts ...MemStoreOption) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{history: make(map[string][]model.Submission)}
	}

	return s
}

func (s *MemStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID)) //nolint:errcheck // hash.Hash never errors
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// Append adds a scored submission to the user's history in arrival order.
func (s *MemStore) Append(_ context.Context, sub model.Submission) error {
	sh := s.shardFor(sub.UserID)

	sh.mu.Lock()
	if _, exists := sh.history[sub.UserID]; !exists {
		s.users.Add(1)
	}
	sh.history[sub.UserID] = append(sh.history[sub.UserID], sub)
	sh.mu.Unlock()

	total := s.count.Add(1)
	metrics.UpdateStoredSubmissions(int(total))
	metrics.UpdateTrackedUsers(int(s.users.Load()))
	return nil
}

// ListByUser returns a copy of the user's submissions in arrival order.
func (s *MemStore) ListByUser(_ context.Context, userID string) ([]model.Submission, error) {
	sh := s.shardFor(userID)

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	history, exists := sh.history[userID]
	if !exists {
		return nil, ErrNotFound
	}

	out := make([]model.Submission, len(history))
	copy(out, history)
	return out, nil
}

// SolvedSet returns the distinct problem IDs the user has passed.
// An unknown user yields an empty set, not an error.
func (s *MemStore) SolvedSet(_ context.Context, userID string) (map[string]bool, error) {
	sh := s.shardFor(userID)

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	solved := make(map[string]bool)
	for _, sub := range sh.history[userID] {
		if sub.Passed {
			solved[sub.ProblemID] = true
		}
	}
	return solved, nil
}

// Count returns the total number of stored submissions.
func (s *MemStore) Count(_ context.Context) int {
	return int(s.count.Load())
}

// Users returns the number of distinct users with history.
func (s *MemStore) Users(_ context.Context) int {
	return int(s.users.Load())
}
