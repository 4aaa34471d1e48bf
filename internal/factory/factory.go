package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/fakeout-io/fakeout/internal/dependencies/clock"
	"github.com/fakeout-io/fakeout/internal/dependencies/random"
	"github.com/fakeout-io/fakeout/internal/registry"
	"github.com/fakeout-io/fakeout/internal/services/engine"
	"github.com/fakeout-io/fakeout/internal/services/history"
	"github.com/fakeout-io/fakeout/internal/services/questions"
	"github.com/fakeout-io/fakeout/internal/sse"
	"github.com/fakeout-io/fakeout/internal/storage"
	"github.com/fakeout-io/fakeout/internal/storage/memory"
	redisstorage "github.com/fakeout-io/fakeout/internal/storage/redis"
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
	Clock  clock.Clock
	Random random.Random

	// Core components
	Registry    *registry.Registry
	Questions   *questions.Service
	History     *history.Service
	Engine      *engine.Engine
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// QuestionsPath is the path to the question bank file (optional)
	// If empty, questions must be loaded manually
	QuestionsPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return NewWithDependencies(store, clk, rnd, logger), nil
}

// NewWithDependencies creates an App with the given dependencies (useful for testing)
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	reg := registry.New(clk, rnd, logger)
	questionsService := questions.New(store, rnd, logger)
	historyService := history.New(store, clk, logger)
	gameEngine := engine.New(reg, historyService, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Questions:   questionsService,
		History:     historyService,
		Engine:      gameEngine,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
	}
}
