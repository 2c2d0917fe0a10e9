package lawdex

import "time"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	rankerURL     string
	rankerTimeout time.Duration

	snapshotPath string

	indexName   string
	keyPrefix   string
	callTimeout time.Duration

	maxQueryLength int
	maxKeywords    int
}

// WithValkey configures the client to connect to a Valkey instance for the
// remote keyword tier.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance for the
// remote keyword tier. Identical wiring to WithValkey; both speak RESP.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRanker sets the base URL of the external ranking engine.
func WithRanker(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rankerURL = baseURL
	})
}

// WithRankerTimeout sets the per-request timeout for the ranking engine.
// Defaults to 5 seconds.
func WithRankerTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.rankerTimeout = d
	})
}

// WithSnapshot sets the path of the local article snapshot. Required.
func WithSnapshot(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.snapshotPath = path
	})
}

// WithIndexLayout overrides the FT.SEARCH index name and document key prefix.
func WithIndexLayout(indexName, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = indexName
		c.keyPrefix = keyPrefix
	})
}

// WithCallTimeout sets the per-keyword timeout for remote index calls.
// Defaults to 5 seconds.
func WithCallTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.callTimeout = d
	})
}

// WithQueryLimits overrides the query length and keyword caps.
func WithQueryLimits(maxQueryLength, maxKeywords int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxQueryLength = maxQueryLength
		c.maxKeywords = maxKeywords
	})
}
