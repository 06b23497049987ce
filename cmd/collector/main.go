package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/marketdata/internal/api"
	"github.com/rickgao/marketdata/internal/backfill"
	"github.com/rickgao/marketdata/internal/cache"
	"github.com/rickgao/marketdata/internal/calendar"
	"github.com/rickgao/marketdata/internal/collector"
	"github.com/rickgao/marketdata/internal/config"
	"github.com/rickgao/marketdata/internal/contract"
	"github.com/rickgao/marketdata/internal/database"
	"github.com/rickgao/marketdata/internal/metrics"
	"github.com/rickgao/marketdata/internal/server"
	"github.com/rickgao/marketdata/internal/version"
	"github.com/rickgao/marketdata/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/marketdata.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"quotes_url", cfg.Quotes.BaseURL,
		"symbols", cfg.Collector.Symbols,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cal, err := calendar.FromConfig(cfg.Calendar)
	if err != nil {
		logger.Error("failed to build trading calendar", "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database, "collector-"+cfg.Instance.ID)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	m := metrics.New()

	// Create API client
	apiClient := api.NewClient(
		cfg.Quotes.BaseURL,
		cfg.Quotes.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Quotes.Timeout),
		api.WithRetries(cfg.Quotes.MaxRetries, time.Second),
		api.WithRateLimit(cfg.Quotes.RateLimit),
	)

	// Real-time pipeline reads and writes the realtime table
	realtime := backfill.New(cal,
		database.NewEquityStore(pool, database.TableEquityRealtime),
		writer.NewBarWriter(pool, database.TableEquityRealtime, logger),
		backfill.WithLogger(logger),
		backfill.WithMetrics(m),
		backfill.WithLookback(cfg.Collector.Window),
	)

	coll := collector.New(collector.Config{
		Symbols:     cfg.Collector.Symbols,
		Interval:    cfg.Collector.Interval,
		Concurrency: cfg.Collector.Concurrency,
		Timeout:     cfg.Collector.Timeout,
	}, cal, apiClient, writer.NewSampleWriter(pool, database.TableEquityRealtime, logger), realtime, m, logger)

	caches := cache.NewManager(
		cache.WithSize(cfg.Resolver.CacheSize),
		cache.WithObserver(m),
	)
	resolver := contract.NewService(database.NewOptionStore(pool), caches,
		contract.WithCacheTTL(cfg.Resolver.CacheTTL),
		contract.WithLookbackDays(cfg.Resolver.LookbackDays),
		contract.WithLogger(logger),
	)

	// Start health server early so we can monitor the loop
	healthServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: server.NewRouter(server.Deps{
			DB:          pool,
			Resolver:    resolver,
			Collector:   coll,
			Caches:      caches,
			Metrics:     m,
			Logger:      logger,
			MetricsPath: cfg.Metrics.Path,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := coll.Start(ctx); err != nil {
		logger.Error("failed to start collector", "error", err)
		os.Exit(1)
	}

	logger.Info("collector running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := coll.Stop(shutdownCtx); err != nil {
		logger.Warn("collector stop timed out", "error", err)
	}

	// Graceful shutdown of health server
	healthServer.Shutdown(shutdownCtx)

	logger.Info("collector stopped")
}
