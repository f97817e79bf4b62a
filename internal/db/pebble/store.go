// Package pebble implements db.Store on an embedded Pebble LSM.
package pebble

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/kailas-cloud/archivist/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// headerSize prefixes every value with its expiry (unix nanos, 0 = none).
const headerSize = 8

// Config holds the on-disk location. InMemory ignores Path.
type Config struct {
	Path     string
	InMemory bool
}

// Store implements db.Store via Pebble. Expired keys are dropped lazily on read.
type Store struct {
	db     *pebble.DB
	closed atomic.Bool
	nxMu   sync.Mutex
	now    func() time.Time
}

// Open opens (or creates) the database.
func Open(cfg Config) (*Store, error) {
	opts := &pebble.Options{}
	dir := cfg.Path
	if cfg.InMemory {
		opts.FS = vfs.NewMem()
		dir = ""
	} else if dir == "" {
		return nil, fmt.Errorf("path is required")
	}
	d, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &Store{db: d, now: time.Now}, nil
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// WaitForReady returns immediately: an opened embedded store is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close flushes and closes the database.
func (s *Store) Close() {
	if s.closed.Swap(true) {
		return
	}
	_ = s.db.Close()
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	v, ok, err := s.get(key)
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// GetMulti fetches several keys. Missing keys yield nil entries.
func (s *Store) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpMGet, Err: db.ErrClosed}
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		v, ok, err := s.get(k)
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("key %s: %w", k, err)}
		}
		if ok {
			out[i] = v
		}
	}
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.set(db.OpSet, key, value, 0)
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.set(db.OpSet, key, value, 0)
	}
	return s.set(db.OpSet, key, value, s.now().Add(ttl).UnixNano())
}

// SetNX stores a value only when the key is absent.
// It is atomic with respect to other SetNX calls on the same store.
func (s *Store) SetNX(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSetNX, Err: db.ErrClosed}
	}
	s.nxMu.Lock()
	defer s.nxMu.Unlock()

	_, ok, err := s.get(key)
	if err != nil {
		return &db.Error{Op: db.OpSetNX, Err: err}
	}
	if ok {
		return db.ErrKeyExists
	}
	return s.set(db.OpSetNX, key, value, 0)
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a live key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, &db.Error{Op: db.OpExists, Err: db.ErrClosed}
	}
	_, ok, err := s.get(key)
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return ok, nil
}

// Scan returns live keys matching a glob pattern, in key order.
// The literal prefix before the first wildcard bounds the iteration.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpScan, Err: db.ErrClosed}
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("bad pattern %q: %w", pattern, err)}
	}
	prefix := pattern
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		prefix = pattern[:i]
	}

	opts := &pebble.IterOptions{}
	if prefix != "" {
		opts.LowerBound = []byte(prefix)
		opts.UpperBound = prefixUpperBound([]byte(prefix))
	}
	it, err := s.db.NewIter(opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	defer it.Close()

	now := s.now()
	var keys []string
	for it.First(); it.Valid(); it.Next() {
		k := string(it.Key())
		if ok, _ := path.Match(pattern, k); !ok {
			continue
		}
		if expired(it.Value(), now) {
			continue
		}
		keys = append(keys, k)
	}
	if err := it.Error(); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	return keys, nil
}

func (s *Store) get(key string) ([]byte, bool, error) {
	raw, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	if expired(raw, s.now()) {
		return nil, false, nil
	}
	// raw is only valid until closer.Close
	out := make([]byte, len(raw)-headerSize)
	copy(out, raw[headerSize:])
	return out, true, nil
}

func (s *Store) set(op, key string, value []byte, expireAt int64) error {
	if s.closed.Load() {
		return &db.Error{Op: op, Err: db.ErrClosed}
	}
	if err := s.db.Set([]byte(key), encode(value, expireAt), pebble.Sync); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}

func encode(value []byte, expireAt int64) []byte {
	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expireAt))
	copy(buf[headerSize:], value)
	return buf
}

func expired(raw []byte, now time.Time) bool {
	if len(raw) < headerSize {
		return true
	}
	at := int64(binary.BigEndian.Uint64(raw[:headerSize]))
	return at != 0 && now.UnixNano() >= at
}

// prefixUpperBound returns the smallest key greater than every key with prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
