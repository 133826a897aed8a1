package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/purplemusic/catalog/internal/app"
	"github.com/purplemusic/catalog/internal/config"
	"github.com/purplemusic/catalog/internal/constants"
	httpapp "github.com/purplemusic/catalog/internal/http"
	"github.com/purplemusic/catalog/internal/identity"
	"github.com/purplemusic/catalog/internal/ingest"
	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/ranking"
	"github.com/purplemusic/catalog/internal/store"
	"github.com/purplemusic/catalog/internal/suggest"
	"github.com/purplemusic/catalog/internal/upstream"
	"github.com/purplemusic/catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// Upstream
	var cache upstream.Cache = upstream.NewStoreCache(db)
	if cfg.ValkeyURL != "" {
		vc, err := upstream.NewValkeyCache(ctx, cfg.ValkeyURL)
		if err != nil {
			return err
		}
		defer vc.Close()
		cache = vc
		appLogger.Info("Using valkey response cache")
	}
	fetcher := upstream.NewCachedFetcher(
		upstream.NewClient(upstream.ClientConfig{
			BaseURL:     cfg.UpstreamURL,
			APIKey:      cfg.UpstreamAPIKey,
			Timeout:     cfg.UpstreamTimeout,
			MinInterval: cfg.UpstreamMinInterval,
		}, appLogger),
		cache, cfg.CacheTTL, appLogger,
	)

	// Background work
	queue := worker.NewQueue(cfg.TaskQueueSize, constants.DefaultTaskWorkers, appLogger)
	queue.Start(ctx)

	overrides := ranking.NewOverrides(cfg.Overrides())
	resolver := identity.NewResolver(db, appLogger)
	indexer := suggest.NewIndexer(db, fetcher, suggest.Config{
		TickBatch:  cfg.SuggestTickBatch,
		DailyBatch: cfg.SuggestDailyBatch,
		DailyDelay: cfg.SuggestDailyDelay,
		Overrides:  overrides,
	}, appLogger)
	indexer.UseQueue(queue)

	pipeline := ingest.NewPipeline(db, resolver, appLogger)
	pipeline.OnArtistResolved(queue, indexer.IndexArtist)

	scheduler := worker.NewScheduler(appLogger)
	scheduler.Every("suggest-tick", cfg.SuggestTickInterval, func(ctx context.Context) error {
		_, err := indexer.Tick(ctx)
		return err
	})
	if cfg.SuggestDailyEnabled {
		scheduler.Every("suggest-daily", constants.DailyInterval, indexer.DailyJob)
	}
	scheduler.Every("cache-purge", constants.CachePurgeInterval, func(ctx context.Context) error {
		n, err := db.PurgeExpiredCache(ctx)
		if n > 0 {
			appLogger.Info("Purged expired cache entries", "count", n)
		}
		return err
	})
	scheduler.Start(ctx)

	service := app.NewCatalogService(app.Deps{
		Fetcher:   fetcher,
		Ingester:  pipeline,
		Resolver:  resolver,
		Suggester: indexer,
		Albums:    db,
		Overrides: overrides,
	}, appLogger)
	service.OnArtistResolved(queue, indexer.IndexArtist)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := httpapp.NewHandler(service, db, appLogger)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		scheduler.Stop()
		if qerr := queue.Stop(shutdownCtx); qerr != nil {
			appLogger.Warn("Task queue did not drain", "error", qerr, "pending", queue.Len())
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	appLogger.Info("Server exiting")
	return nil
}
