package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithCapacity bounds how many runs the store keeps; once full the
// lowest-ranked run is evicted. Zero or negative keeps everything.
func WithCapacity(n int) Option {
	return func(s *TreapStore) {
		s.capacity = n
	}
}
