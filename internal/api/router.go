package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fakeout-io/fakeout/internal/api/handler"
	"github.com/fakeout-io/fakeout/internal/api/middleware"
	"github.com/fakeout-io/fakeout/internal/registry"
	"github.com/fakeout-io/fakeout/internal/services/engine"
	"github.com/fakeout-io/fakeout/internal/services/history"
	"github.com/fakeout-io/fakeout/internal/services/questions"
	"github.com/fakeout-io/fakeout/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Registry    *registry.Registry
	Engine      *engine.Engine
	Questions   *questions.Service
	History     *history.Service
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.Engine, cfg.HubManager, cfg.Broadcaster)
	gameHandler := handler.NewGameHandler(cfg.Registry, cfg.Engine, cfg.Questions, cfg.HubManager, cfg.Broadcaster)
	metaHandler := handler.NewMetaHandler(cfg.Questions, cfg.History)

	// Create middleware
	identityMiddleware := middleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Room discovery routes; no player identity needed to look or join
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/code/{code}", roomHandler.GetByCode).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}/state", gameHandler.State).Methods(http.MethodGet)

	// Member routes - the caller must present their connection id
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(identityMiddleware)
	rooms.HandleFunc("/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/fake", gameHandler.Fake).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/choose", gameHandler.Choose).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/advance", gameHandler.Advance).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	// Metadata routes
	api.HandleFunc("/topics", metaHandler.Topics).Methods(http.MethodGet)
	api.HandleFunc("/history", metaHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/history/{id}", metaHandler.HistoryGet).Methods(http.MethodGet)
	api.HandleFunc("/health", metaHandler.Health).Methods(http.MethodGet)

	return r
}
