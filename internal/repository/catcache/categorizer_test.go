package catcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
)

var hint = category.Hint{Title: "Oral history interviews", FileName: "interviews.mp3"}

func TestCategorize_CacheMiss(t *testing.T) {
	inner := &mockCategorizer{result: category.Suggestion{
		Category: "audio", Tags: []string{"oral", "history"}, Source: category.SourceRules,
	}}
	cc, ms := newTestCachedCategorizer(t, inner)

	var setKey string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey, setTTL = key, ttl
		return nil
	}

	got, err := cc.Categorize(context.Background(), hint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != category.SourceRules || got.Category != "audio" {
		t.Fatalf("got %+v", got)
	}
	if !strings.HasPrefix(setKey, "test:cat_cache:") || !strings.HasSuffix(setKey, hint.Key()) {
		t.Errorf("cache key = %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("ttl = %v", setTTL)
	}
}

func TestCategorize_CacheHit(t *testing.T) {
	inner := &mockCategorizer{}
	cc, ms := newTestCachedCategorizer(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"category":"documents","tags":["letters"]}`), nil
	}

	got, err := cc.Categorize(context.Background(), hint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != category.SourceCache || got.Category != "documents" || len(got.Tags) != 1 {
		t.Fatalf("got %+v", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
}

func TestCategorize_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockCategorizer{result: category.Suggestion{Category: "images"}}
	cc, ms := newTestCachedCategorizer(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte("{"), nil }

	got, err := cc.Categorize(context.Background(), hint)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "images" || inner.calls != 1 {
		t.Errorf("got %+v after %d calls", got, inner.calls)
	}
}

func TestCategorize_InnerError(t *testing.T) {
	inner := &mockCategorizer{err: domain.ErrCategorizerProviderError}
	cc, ms := newTestCachedCategorizer(t, inner)
	var setCalled bool
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cc.Categorize(context.Background(), hint)
	if !errors.Is(err, domain.ErrCategorizerProviderError) {
		t.Fatalf("err = %v", err)
	}
	if setCalled {
		t.Error("failed suggestion must not be cached")
	}
}

func TestCategorize_StoreErrorsAreNotFatal(t *testing.T) {
	inner := &mockCategorizer{result: category.Suggestion{Category: "videos"}}
	cc, ms := newTestCachedCategorizer(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("timeout") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("timeout") }

	got, err := cc.Categorize(context.Background(), hint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != "videos" {
		t.Errorf("got %+v", got)
	}
}

func TestCategorize_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cat_cache_total"}, []string{"result"})
	inner := &mockCategorizer{result: category.Suggestion{Category: "audio"}}
	stored := map[string][]byte{}
	ms := &mockKVStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := stored[key]; ok {
				return v, nil
			}
			return nil, errors.New("miss")
		},
		setFn: func(_ context.Context, key string, v []byte, _ time.Duration) error {
			stored[key] = v
			return nil
		},
	}
	cc := New(inner, ms, "", time.Minute, counter, zap.NewNop())

	for range 3 {
		if _, err := cc.Categorize(context.Background(), hint); err != nil {
			t.Fatal(err)
		}
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("hit = %v, want 2", got)
	}
}
