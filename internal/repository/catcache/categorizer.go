package catcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/db"
	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
)

// store is the consumer interface for the categorizer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// CachedCategorizer caches suggestions in a key-value store.
type CachedCategorizer struct {
	inner      category.Categorizer
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner category.Categorizer,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCategorizer {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &CachedCategorizer{
		inner:      inner,
		store:      s,
		prefix:     prefix + "cat_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Categorize returns a cached suggestion or asks the inner categorizer.
// Hits carry category.SourceCache.
func (c *CachedCategorizer) Categorize(ctx context.Context, hint category.Hint) (category.Suggestion, error) {
	key := c.prefix + hint.Key()

	if s, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return s, nil
	}

	c.incCache("miss")

	s, err := c.inner.Categorize(ctx, hint)
	if err != nil {
		return category.Suggestion{}, fmt.Errorf("categorize: %w", err)
	}

	c.putToCache(ctx, key, s)
	return s, nil
}

func (c *CachedCategorizer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedCategorizer) getFromCache(ctx context.Context, key string) (category.Suggestion, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached suggestion", zap.String("key", key), zap.Error(err))
		}
		return category.Suggestion{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Category == "" {
		c.logger.Warn("Failed to parse cached suggestion", zap.String("key", key), zap.Error(err))
		return category.Suggestion{}, false
	}
	return category.Suggestion{Category: e.Category, Tags: e.Tags, Source: category.SourceCache}, true
}

func (c *CachedCategorizer) putToCache(ctx context.Context, key string, s category.Suggestion) {
	data, err := json.Marshal(entry{Category: s.Category, Tags: s.Tags})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache suggestion", zap.String("key", key), zap.Error(err))
	}
}
