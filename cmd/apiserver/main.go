// API server entry point for famscope.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/famscope/famscope/internal/application/report"
	"github.com/famscope/famscope/internal/config"
	rediscache "github.com/famscope/famscope/internal/infrastructure/cache/redis"
	"github.com/famscope/famscope/internal/infrastructure/lookup"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/prometheus"
	"github.com/famscope/famscope/internal/infrastructure/render/pdf"
	miniostore "github.com/famscope/famscope/internal/infrastructure/storage/minio"
	httpserver "github.com/famscope/famscope/internal/interfaces/http"
	"github.com/famscope/famscope/internal/interfaces/http/handlers"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting famscope api server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("lookup_base_url", cfg.Lookup.BaseURL))

	ctx := context.Background()
	metrics := prometheus.NewMetrics("famscope")

	provider := lookup.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, logger,
		lookup.WithObserver(metrics))
	renderer := pdf.NewRenderer(logger)

	serviceOpts := []report.Option{report.WithObserver(metrics)}
	var checkers []handlers.HealthChecker

	// Redis and MinIO are optional collaborators: a failed startup degrades
	// the service instead of aborting it.
	if cfg.Redis.Enabled {
		redisClient, err := rediscache.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, response caching disabled", logging.Err(err))
		} else {
			defer redisClient.Close()
			cache := rediscache.NewCache(redisClient, logger,
				rediscache.WithPrefix(cfg.Redis.KeyPrefix),
				rediscache.WithDefaultTTL(cfg.Lookup.CacheTTL),
				rediscache.WithCacheObserver(metrics))
			serviceOpts = append(serviceOpts, report.WithResponseCache(cache))
			checkers = append(checkers, handlers.CheckerFunc{
				ComponentName: "redis",
				CheckFunc:     redisClient.Ping,
			})
		}
	}

	if cfg.MinIO.Enabled {
		minioClient, err := miniostore.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			logger.Warn("minio unavailable, artifact caching disabled", logging.Err(err))
		} else {
			store := miniostore.NewStore(minioClient, cfg.MinIO.PresignExpiry)
			serviceOpts = append(serviceOpts, report.WithArtifactStore(store))
			checkers = append(checkers, handlers.CheckerFunc{
				ComponentName: "minio",
				CheckFunc:     minioClient.Ping,
			})
		}
	}

	service := report.NewService(provider, renderer, report.Config{
		PageCapacity:  cfg.Report.PageCapacity,
		AgeBrackets:   cfg.Report.AgeBrackets,
		StrictDNI:     cfg.Lookup.StrictDNI,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		LookupTTL:     cfg.Lookup.CacheTTL,
	}, logger, serviceOpts...)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		TreeHandler:    handlers.NewTreeHandler(service, logger),
		HealthHandler:  handlers.NewHealthHandler(version, checkers...),
		MetricsHandler: metrics.Handler(),
		HTTPObserver:   metrics,
		Logger:         logger,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
		if err := server.Stop(ctx); err != nil {
			logger.Error("shutdown failed", logging.Err(err))
			os.Exit(1)
		}
	}
}

// loadConfig reads the YAML file when present, falling back to environment
// variables so containerized deployments need no file at all.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
