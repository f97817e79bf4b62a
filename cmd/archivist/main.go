package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/config"
	"github.com/kailas-cloud/archivist/internal/db"
	"github.com/kailas-cloud/archivist/internal/db/driver"
	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
	logpkg "github.com/kailas-cloud/archivist/internal/logger"
	"github.com/kailas-cloud/archivist/internal/metrics"
	"github.com/kailas-cloud/archivist/internal/repository/catcache"
	recordrepo "github.com/kailas-cloud/archivist/internal/repository/record"
	"github.com/kailas-cloud/archivist/internal/repository/seed"
	chiTransport "github.com/kailas-cloud/archivist/internal/transport/chi"
	openaiCat "github.com/kailas-cloud/archivist/internal/transport/openai"
	"github.com/kailas-cloud/archivist/internal/usecase/categorize"
	contentuc "github.com/kailas-cloud/archivist/internal/usecase/content"
	healthuc "github.com/kailas-cloud/archivist/internal/usecase/health"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
	searchuc "github.com/kailas-cloud/archivist/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/archivist/internal/usecase/upload"
	"github.com/kailas-cloud/archivist/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting archivist API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("categorizer", cfg.Categorizer.Provider),
	)

	store, err := driver.Open(driver.Config{
		Driver:   cfg.Database.Driver,
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	records := recordrepo.New(store, cfg.Storage.KeyPrefix)
	if cfg.Seed.Path != "" {
		seedRecords(ctx, records, cfg.Seed, logger)
	}

	categorizer, categorizerHealth := buildCategorizer(cfg.Categorizer, store, cfg.Storage.KeyPrefix, logger)

	// One pipeline per view so metrics are labeled by view
	contentSvc := contentuc.New(records,
		listing.NewInstrumented(listing.New(cfg.Listing.SearchableFields...), "content", logger)).
		WithMaxBulkItems(cfg.Listing.MaxBulkItems)
	searchSvc := searchuc.New(records,
		listing.NewInstrumented(listing.New(searchuc.SearchableFields...), "search", logger))
	uploadSvc := uploaduc.New(records, categorizer,
		listing.NewInstrumented(listing.New(), "uploads", logger),
		domain.UploadConfig{
			MaxFileSize: int64(cfg.Upload.MaxFileSizeMB) * 1024 * 1024,
			Workers:     cfg.Upload.Workers,
			QueueSize:   cfg.Upload.QueueSize,
		}, logpkg.Component(logger, "upload"))
	healthSvc := healthuc.New(store, categorizerHealth)

	workersDone := make(chan error, 1)
	go func() { workersDone <- uploadSvc.Run(ctx) }()

	server := chiTransport.NewServer(contentSvc, searchSvc, uploadSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	chiTransport.HandlerWithOptions(server, chiTransport.ServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if err := <-workersDone; err != nil {
		logger.Error("Upload workers stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// seedRecords loads the configured fixture. Failures are logged, not fatal.
func seedRecords(ctx context.Context, records *recordrepo.Repo, cfg config.SeedConfig, logger *zap.Logger) {
	recs, err := seed.LoadFile(cfg.Path)
	if err != nil {
		logger.Error("Failed to load seed fixture", zap.String("path", cfg.Path), zap.Error(err))
		return
	}
	stats, err := seed.NewSeeder(records, logger).Seed(ctx, recs, cfg.Overwrite)
	if err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		return
	}
	logger.Info("Seeded records",
		zap.String("path", cfg.Path),
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
	)
}

// buildCategorizer assembles the decorator chain: OpenAI -> Cached -> Fallback(rules) -> Instrumented.
// The returned checker is nil for the rules provider.
func buildCategorizer(
	cfg config.CategorizerConfig,
	store db.Store,
	prefix string,
	logger *zap.Logger,
) (category.Categorizer, healthuc.CategorizerChecker) {
	rules := categorize.NewRules()
	if cfg.Provider != config.CategorizerOpenAI {
		return categorize.NewInstrumented(rules, config.CategorizerRules, logger), nil
	}

	base := openaiCat.NewCategorizer(&openaiCat.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	var c category.Categorizer = base
	if cfg.CacheTTLSec > 0 {
		c = catcache.New(base, store, prefix, time.Duration(cfg.CacheTTLSec)*time.Second,
			metrics.CategorizerCacheTotal, logger)
	}
	c = categorize.NewFallback(c, rules, logger)

	logger.Info("Categorizer created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("cache_ttl_sec", cfg.CacheTTLSec),
	)
	return categorize.NewInstrumented(c, cfg.Provider, logger), base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
