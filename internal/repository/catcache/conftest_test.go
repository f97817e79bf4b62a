package catcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/db"
	"github.com/kailas-cloud/archivist/internal/domain/category"
)

type mockCategorizer struct {
	result category.Suggestion
	err    error
	calls  int
}

func (m *mockCategorizer) Categorize(_ context.Context, _ category.Hint) (category.Suggestion, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedCategorizer(t *testing.T, inner *mockCategorizer) (*CachedCategorizer, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "test:", time.Hour, nil, zap.NewNop()), ms
}
