package record

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/archivist/internal/db"
	"github.com/kailas-cloud/archivist/internal/domain"
	domrec "github.com/kailas-cloud/archivist/internal/domain/record"
)

// store is the consumer interface for records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/content.Repository on a key-value store.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. An empty prefix uses domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix + "record:"}
}

// All returns every stored record ordered by id (numeric ids first, numerically).
func (r *Repo) All(ctx context.Context) ([]domrec.Record, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	if len(keys) == 0 {
		return []domrec.Record{}, nil
	}
	slices.SortFunc(keys, func(a, b string) int {
		return compareIDs(r.idOf(a), r.idOf(b))
	})
	// SCAN may return a key more than once while the keyspace rehashes.
	keys = slices.Compact(keys)

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget records: %w", err)
	}

	out := make([]domrec.Record, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			// deleted between SCAN and MGET
			continue
		}
		rec, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns a record by id.
func (r *Repo) Get(ctx context.Context, id string) (domrec.Record, error) {
	key := r.key(id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Record{}, fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
		}
		return domrec.Record{}, fmt.Errorf("get %s: %w", key, err)
	}
	return decode(raw)
}

// Create stores a new record, failing with domain.ErrAlreadyExists on a taken id.
func (r *Repo) Create(ctx context.Context, rec domrec.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	key := r.key(rec.ID())
	if err := r.store.SetNX(ctx, key, data); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return fmt.Errorf("record %q: %w", rec.ID(), domain.ErrAlreadyExists)
		}
		return fmt.Errorf("setnx %s: %w", key, err)
	}
	return nil
}

// Put creates or replaces a record.
func (r *Repo) Put(ctx context.Context, rec domrec.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	key := r.key(rec.ID())
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(id string) string { return r.prefix + id }

func (r *Repo) idOf(key string) string { return strings.TrimPrefix(key, r.prefix) }

// compareIDs puts integer ids first in numeric order, then the rest lexically.
func compareIDs(a, b string) int {
	an, aErr := strconv.ParseUint(a, 10, 64)
	bn, bErr := strconv.ParseUint(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if c := cmp.Compare(an, bn); c != 0 {
			return c
		}
		return strings.Compare(a, b) // "01" vs "1"
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
