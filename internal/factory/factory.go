package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/casuskim/casus/internal/api"
	"github.com/casuskim/casus/internal/dependencies/clock"
	"github.com/casuskim/casus/internal/dependencies/identity"
	"github.com/casuskim/casus/internal/dependencies/random"
	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/realtime"
	"github.com/casuskim/casus/internal/services/game"
	"github.com/casuskim/casus/internal/services/history"
	"github.com/casuskim/casus/internal/services/presence"
	"github.com/casuskim/casus/internal/services/room"
	"github.com/casuskim/casus/internal/services/words"
	"github.com/casuskim/casus/internal/storage"
	"github.com/casuskim/casus/internal/storage/memory"
	redisstorage "github.com/casuskim/casus/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock      clock.Clock
	Random     random.Random
	IDs        identity.Generator
	ChannelIDs identity.Generator

	// Services
	Words          *words.Service
	Registry       *room.Registry
	GameController *game.Controller
	Directory      *realtime.Directory
	Router         *realtime.Router
	Reaper         *presence.Reaper
	History        *history.Recorder
	Hub            *hub.Hub

	// Handler serves the HTTP API and the game WebSocket
	Handler http.Handler

	logger  *slog.Logger
	closers []io.Closer
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WordsPath is an optional YAML word pack. When empty, categories already in storage
	// are used, then the built-in pack.
	WordsPath string
	// DefaultCategory is the fallback category (optional)
	DefaultCategory string
	// RoomSettings are the settings new rooms start with (optional)
	RoomSettings *model.RoomSettings
	// MinPlayers is the smallest roster a game can start with (optional)
	MinPlayers int
	// WebSocket holds per-connection limits (optional)
	WebSocket *realtime.WSConfig
}

// New creates a new application with all dependencies wired and the word pack loaded
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closers, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), random.New(), identity.New(), cfg, logger)
	app.closers = closers

	if err := app.Words.Load(ctx, cfg.WordsPath); err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to load word pack: %w", err)
	}
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, []io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisStore, []io.Closer{redisStore}, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids identity.Generator,
	cfg Config,
	logger *slog.Logger,
) *App {
	defaultCategory := cfg.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = words.DefaultCategory
	}
	settings := model.DefaultRoomSettings()
	if cfg.RoomSettings != nil {
		settings = *cfg.RoomSettings
	}
	wsConfig := realtime.DefaultWSConfig()
	if cfg.WebSocket != nil {
		wsConfig = *cfg.WebSocket
	}

	wordService := words.New(store, defaultCategory, logger)
	registry := room.NewRegistry(settings, clk, rnd, ids, logger)
	gameController := game.NewController(registry, wordService, clk, rnd, ids, cfg.MinPlayers, logger)
	directory := realtime.NewDirectory()
	router := realtime.NewRouter(directory, logger)
	reaper := presence.NewReaper(directory, registry, gameController, logger)
	recorder := history.NewRecorder(store, history.DefaultQueueSize, logger)
	gameHub := hub.New(gameController, registry, directory, router, reaper, recorder, hub.DefaultQueueSize, logger)
	channelIDs := identity.New()

	handler := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Hub:        gameHub,
		Words:      wordService,
		History:    recorder,
		ChannelIDs: channelIDs,
		WebSocket:  wsConfig,
	})

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		IDs:            ids,
		ChannelIDs:     channelIDs,
		Words:          wordService,
		Registry:       registry,
		GameController: gameController,
		Directory:      directory,
		Router:         router,
		Reaper:         reaper,
		History:        recorder,
		Hub:            gameHub,
		Handler:        handler,
		logger:         logger,
	}
}

// Start runs the hub loop and the history recorder in the background
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.Hub.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.History.Run(ctx)
	}()
}

// Stop ends the hub loop, drains pending history and closes storage. Start must have been called.
func (a *App) Stop() {
	a.cancel()
	a.History.Close()
	a.wg.Wait()
	a.closeStorage()
}

func (a *App) closeStorage() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close storage", slog.Any("error", err))
		}
	}
}
