package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/exoscout/exoscout/internal/api"
	"github.com/exoscout/exoscout/internal/archive"
	"github.com/exoscout/exoscout/internal/cache"
	"github.com/exoscout/exoscout/internal/config"
	"github.com/exoscout/exoscout/internal/cutout"
	"github.com/exoscout/exoscout/internal/lightcurve"
	"github.com/exoscout/exoscout/internal/logger"
	"github.com/exoscout/exoscout/internal/model"
	"github.com/exoscout/exoscout/internal/pipeline"
	"github.com/exoscout/exoscout/internal/resolver"
	"github.com/exoscout/exoscout/internal/telemetry"
)

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting exoscout",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.String("archive_url", cfg.Archive.BaseURL),
		logger.String("models_dir", cfg.Models.Dir),
	)

	tel := telemetry.NewProvider()

	archiveClient := archive.NewClient(archive.Config{
		BaseURL: cfg.Archive.BaseURL,
		Timeout: cfg.Archive.Timeout,
		RPS:     cfg.Archive.RPS,
		Burst:   cfg.Archive.Burst,
	}, tel, log.With(logger.String("component", "archive")))

	store := selectCacheStore(cfg, log)

	models := model.NewService(
		model.NewFileStore(cfg.Models.Dir),
		tel,
		log.With(logger.String("component", "models")),
	)

	sectors := cutout.NewClient(cfg.Cutout.BaseURL, cfg.Cutout.Timeout,
		log.With(logger.String("component", "cutout")))

	var photometry lightcurve.Provider
	if cfg.Lightcurve.BaseURL != "" {
		photometry = lightcurve.NewHTTPProvider(cfg.Lightcurve.BaseURL,
			log.With(logger.String("component", "lightcurve")))
	}

	vetting := pipeline.New(
		resolver.New(archiveClient, log.With(logger.String("component", "resolver"))),
		archiveClient,
		models,
		store,
		cfg.Cache.TTL,
		sectors,
		photometry,
		tel,
		log.With(logger.String("component", "pipeline")),
	)

	handler := api.NewHandler(vetting, cfg.Service.Name, cfg.Service.Version, log)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tel, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("server error", logger.Error(err))
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("graceful shutdown failed", logger.Error(err))
		}
		log.Info("server stopped gracefully")
	}
}

// selectCacheStore picks Redis when configured and reachable, falling back
// to the in-process store.
func selectCacheStore(cfg *config.Config, log logger.Logger) cache.Store {
	if cfg.Cache.RedisAddr == "" {
		log.Info("using in-process archive cache")
		return cache.NewMemoryStore()
	}

	store, err := cache.NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		log.Warn("redis unreachable, falling back to in-process cache",
			logger.String("addr", cfg.Cache.RedisAddr),
			logger.Error(err))
		return cache.NewMemoryStore()
	}

	log.Info("using redis archive cache", logger.String("addr", cfg.Cache.RedisAddr))
	return store
}
