package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fakeout-io/fakeout/internal/api"
	"github.com/fakeout-io/fakeout/internal/factory"
	redisstorage "github.com/fakeout-io/fakeout/internal/storage/redis"
)

const (
	defaultQuestionsPath = "data/questions.json"
	reapInterval         = 5 * time.Minute
	roomMaxIdle          = 2 * time.Hour
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	questionsPath := os.Getenv("QUESTIONS_PATH")
	if questionsPath == "" {
		questionsPath = defaultQuestionsPath
	}

	cfg := factory.Config{
		QuestionsPath: questionsPath,
		Logger:        logger,
		StorageType:   os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load question bank
	if err := app.Questions.LoadFromFile(context.Background(), questionsPath); err != nil {
		logger.Warn("could not load question bank", slog.String("error", err.Error()))
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Registry:    app.Registry,
		Engine:      app.Engine,
		Questions:   app.Questions,
		History:     app.History,
		HubManager:  app.HubManager,
		Broadcaster: app.Broadcaster,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			serverConfig.Port = n
		}
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Periodically reap ended and idle rooms, along with their hubs
	go func() {
		ticker := time.NewTicker(reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := app.Registry.Reap(roomMaxIdle)
				for _, id := range removed {
					app.HubManager.RemoveHub(id)
				}
				if len(removed) > 0 {
					logger.Info("reaped idle rooms", slog.Int("count", len(removed)))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
