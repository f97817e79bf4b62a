// Package driver opens the configured db.Store implementation.
package driver

import (
	"fmt"

	"github.com/kailas-cloud/archivist/internal/db"
	dbPebble "github.com/kailas-cloud/archivist/internal/db/pebble"
	dbRedis "github.com/kailas-cloud/archivist/internal/db/redis"
)

// Driver names.
const (
	Valkey = "valkey"
	Redis  = "redis"
	Pebble = "pebble"
)

// Config selects and parameterizes a driver.
type Config struct {
	Driver   string
	Addrs    []string
	Password string
	Path     string
	InMemory bool
}

// Open creates the store for cfg.Driver. Valkey and Redis share the rueidis driver.
func Open(cfg Config) (db.Store, error) {
	switch cfg.Driver {
	case Valkey, Redis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		return s, nil
	case Pebble:
		s, err := dbPebble.Open(dbPebble.Config{Path: cfg.Path, InMemory: cfg.InMemory})
		if err != nil {
			return nil, fmt.Errorf("open pebble: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
