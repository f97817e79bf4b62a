package archivist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/archivist/internal/db"
	"github.com/kailas-cloud/archivist/internal/db/driver"
	"github.com/kailas-cloud/archivist/internal/domain/bulk"
	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/search/request"
	recordrepo "github.com/kailas-cloud/archivist/internal/repository/record"
	contentuc "github.com/kailas-cloud/archivist/internal/usecase/content"
	healthuc "github.com/kailas-cloud/archivist/internal/usecase/health"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
	searchuc "github.com/kailas-cloud/archivist/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "archivist:"
)

// Internal interfaces, swapped for fakes in tests.
type contentUseCase interface {
	List(ctx context.Context, d query.Descriptor) (page.Page[record.Record], error)
	Get(ctx context.Context, id string) (record.Record, error)
	Upsert(ctx context.Context, rec record.Record) (bool, record.Record, error)
	Delete(ctx context.Context, id string) error
	Bulk(ctx context.Context, action bulk.Action, ids []string) ([]bulk.Result, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Result, error)
}

// Client is the archivist SDK entry point.
type Client struct {
	store      db.Store
	contentSvc contentUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New opens the configured store and wires the catalog services.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.store.Driver == "" {
		return nil, errors.New("archivist: store required (use WithValkey, WithRedis or WithPebble)")
	}

	store, err := driver.Open(cfg.store)
	if err != nil {
		return nil, fmt.Errorf("archivist: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("archivist: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := recordrepo.New(store, cfg.keyPrefix)
	return &Client{
		store:      store,
		contentSvc: contentuc.New(repo, listing.New(cfg.searchable...)),
		searchSvc:  searchuc.New(repo, listing.New(searchuc.SearchableFields...)),
		healthSvc:  healthuc.New(store, nil),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Content returns the content management service.
func (c *Client) Content() *ContentService {
	return &ContentService{svc: c.contentSvc, obs: c.obs}
}

// Search returns the search view service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}
