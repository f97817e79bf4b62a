package archivist

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/archivist/internal/db/driver"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	store driver.Config

	keyPrefix  string
	searchable []string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = driver.Config{Driver: driver.Valkey, Addrs: []string{addr}, Password: password}
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = driver.Config{Driver: driver.Redis, Addrs: []string{addr}, Password: password}
	})
}

// WithPebble opens an embedded Pebble store in dir.
// An empty dir keeps the store in memory, which is handy in tests.
func WithPebble(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = driver.Config{Driver: driver.Pebble, Path: dir, InMemory: dir == ""}
	})
}

// WithKeyPrefix sets the storage key prefix. Must match the service's
// storage.key_prefix to share a catalog. Default: "archivist:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSearchableFields overrides the fields the content list term is matched against.
// Default: title, author, tags.
func WithSearchableFields(fields ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchable = fields
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
