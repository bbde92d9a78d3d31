package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/casuskim/casus/internal/api"
	"github.com/casuskim/casus/internal/config"
	"github.com/casuskim/casus/internal/factory"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/realtime"
	redisstorage "github.com/casuskim/casus/internal/storage/redis"
)

func main() {
	envFile := flag.String("env-file", "", "Path to an env file (default: .env if present)")
	flag.Parse()

	// Load configuration before the logger so LOG_LEVEL applies from the first line
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	settings := model.DefaultRoomSettings()
	settings.MaxPlayers = cfg.MaxPlayers

	factoryCfg := factory.Config{
		Logger:          logger,
		StorageType:     cfg.StorageType,
		WordsPath:       cfg.WordsPath,
		DefaultCategory: cfg.DefaultCategory,
		RoomSettings:    &settings,
		MinPlayers:      cfg.MinPlayers,
		WebSocket: &realtime.WSConfig{
			PingInterval:    cfg.PingInterval,
			MaxMessageBytes: cfg.MaxMessageBytes,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.HistoryTTL = cfg.HistoryTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}
	app.Start(context.Background())

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.HTTPHost
	serverConfig.Port = cfg.Port
	server := api.NewServer(app.Handler, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("categories", len(app.Words.Categories())),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
			exitCode = 1
		}
	}

	// Stop the hub (closing game connections) and drain pending history
	app.Stop()
	logger.Info("server stopped")
	os.Exit(exitCode)
}
