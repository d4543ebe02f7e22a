package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/fantasyhockey/internal/api"
	"github.com/mcoot/fantasyhockey/internal/config"
	"github.com/mcoot/fantasyhockey/internal/factory"
	"github.com/mcoot/fantasyhockey/internal/storage/postgres"
	redisstorage "github.com/mcoot/fantasyhockey/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		logger.Error("invalid PORT", slog.String("port", cfg.Port))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, appConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// The season is created on startup; a failure leaves the server up so an
	// admin can fix the league and retry through the API
	if _, err := app.ScheduleService.InitializeSeason(ctx); err != nil {
		logger.Error("season initialization failed", slog.String("error", err.Error()))
	}

	if cfg.DailyUpdateInterval > 0 {
		go app.DailyRunner.Run(ctx, cfg.DailyUpdateInterval)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AdminToken:       cfg.AdminToken,
		ScheduleService:  app.ScheduleService,
		StandingsService: app.StandingsService,
		IngestService:    app.IngestService,
		GateService:      app.GateService,
	})
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set, admin routes are open")
	}

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = port
	server := api.NewServer(router, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("season_start", cfg.SeasonStart.String()),
		slog.String("timezone", cfg.Location.String()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// appConfig maps server settings onto the application factory
func appConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	fc := factory.DefaultConfig()
	fc.Logger = logger
	fc.StorageType = cfg.StorageType

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		fc.PostgresConfig = &postgres.Config{ConnString: cfg.PostgresConnString}
	}

	fc.Season.SeasonStart = cfg.SeasonStart
	fc.Season.Week1End = cfg.Week1End
	fc.Season.TotalWeeks = cfg.TotalWeeks
	fc.Season.Location = cfg.Location

	fc.NHL.BaseURL = cfg.NHLAPIURL
	fc.Injuries.URL = cfg.InjuryReportURL
	fc.Ingest.SweepDelay = cfg.SweepDelay
	fc.Gate.CacheTTL = cfg.LockCacheTTL

	return fc
}
