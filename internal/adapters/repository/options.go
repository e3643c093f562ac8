package repository

// MemStoreOption applies a configuration option to the MemStore.
type MemStoreOption func(*MemStore)

// WithShardCount sets the number of shards used to partition users.
// Values below one are ignored.
func WithShardCount(n int) MemStoreOption {
	return func(s *MemStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}
