package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"company_profiler/pkg/api/company"
	"company_profiler/pkg/core/config"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/metrics"
	"company_profiler/pkg/core/profile"
	"company_profiler/pkg/core/registry"
	"company_profiler/pkg/core/search"
	"company_profiler/pkg/core/searchcache"
	"company_profiler/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "config/profiler.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init(prometheus.DefaultRegisterer)

	client := registry.NewSOAPClient(cfg.Registry.Endpoint, cfg.Registry.APIKey, cfg.Registry.Timeout, logger.Named("registry"))
	builder := profile.NewBuilder(client, profile.Options{
		RequireCompleteFinancials: cfg.Profile.RequireCompleteFinancials,
	}, logger.Named("profile"))

	var profiles company.Profiles = builder
	var graph company.Graph
	pool, err := store.Connect(ctx, cfg.Database)
	switch {
	case errors.Is(err, store.ErrNotConfigured):
		logger.Warn("no database configured, profiles are built on every request")
	case err != nil:
		return err
	default:
		defer pool.Close()
		if err := store.Migrate(ctx, pool, logger.Named("migrate")); err != nil {
			return err
		}
		graphStore := store.NewGraphStore(pool, nil, logger.Named("store"))
		profiles = store.NewCachedBuilder(graphStore, builder, store.Freshness{MaxAge: cfg.Profile.MaxAge}, nil, logger.Named("cache"))
		graph = graphStore
	}

	cache := searchcache.New[[]registry.CompanySummary](cfg.Search.CacheCapacity, cfg.Search.CacheTTL, nil)
	searcher := search.NewService(client, cache, logger.Named("search"))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           company.New(profiles, searcher, client, graph, prometheus.DefaultGatherer, logger.Named("http")).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
