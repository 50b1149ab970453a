package memo

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of cached lineups. Zero or negative
// disables eviction entirely.
func WithMaxSize(size int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = size
	}
}
