package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/app"
	"github.com/kailas-cloud/folio/internal/config"
	dbRedis "github.com/kailas-cloud/folio/internal/db/redis"
	logpkg "github.com/kailas-cloud/folio/internal/logger"
	"github.com/kailas-cloud/folio/internal/metrics"
	"github.com/kailas-cloud/folio/internal/render"
	"github.com/kailas-cloud/folio/internal/repository/pagecache"
	chiTransport "github.com/kailas-cloud/folio/internal/transport/chi"
	healthuc "github.com/kailas-cloud/folio/internal/usecase/health"
	lookupuc "github.com/kailas-cloud/folio/internal/usecase/lookup"
	"github.com/kailas-cloud/folio/internal/version"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

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

	logger.Info("Starting folio server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset", cfg.Dataset.Name),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	tables, err := app.Load(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load tables", zap.Error(err))
	}

	metrics.RegisterLookupMetrics()
	for name, rows := range tables.Counts() {
		metrics.TableRows.WithLabelValues(name).Set(float64(rows))
	}

	renderer := render.New(render.Options{
		CatalogURL:      cfg.Render.CatalogURL,
		ImageEndpoint:   cfg.Render.ImageEndpoint,
		SearchEndpoint:  cfg.Render.SearchEndpoint,
		PageEndpoint:    cfg.Render.PageEndpoint,
		ThumbnailHeight: cfg.Render.ThumbnailHeight,
	})

	lookupSvc := lookupuc.New(tables.Dataset, tables.Index, tables.Catalog, tables.Regions, renderer).
		WithOutcomes(metrics.LookupOutcomesTotal)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to page cache", zap.Strings("addrs", cfg.Cache.Addrs))

		cache := pagecache.New(store, cfg.Dataset.Name,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.PageCacheTotal, logger)
		lookupSvc.WithCache(cache)
		cachePinger = store
	}

	healthSvc := healthuc.New(tables, cachePinger)

	server := chiTransport.NewServer(lookupSvc, healthSvc, pageEndpoint(cfg.Render), logger)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func pageEndpoint(cfg config.RenderConfig) string {
	if cfg.PageEndpoint != "" {
		return cfg.PageEndpoint
	}
	return render.DefaultOptions().PageEndpoint
}
