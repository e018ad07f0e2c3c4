package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellduel-go/internal/api/handler"
	"github.com/mcoot/spellduel-go/internal/api/middleware"
	"github.com/mcoot/spellduel-go/internal/api/sse"
	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
	"github.com/mcoot/spellduel-go/internal/services/match"
	"github.com/mcoot/spellduel-go/internal/services/reconnect"
	"github.com/mcoot/spellduel-go/internal/services/registry"
	"github.com/mcoot/spellduel-go/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	Registry         *registry.Service
	MatchController  *match.Controller
	ReconnectManager *reconnect.Manager
	StatsService     *stats.Service
	HubManager       *sse.HubManager
	Broadcaster      model.Broadcaster
	Clock            clock.Clock
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.MatchController, cfg.ReconnectManager, cfg.HubManager, cfg.Broadcaster, cfg.Clock)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes (no auth required for creating sessions)
	api.HandleFunc("/session/guest", sessionHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/session/register", sessionHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)

	// Protected session routes
	sessionProtected := api.PathPrefix("/session").Subrouter()
	sessionProtected.Use(authMiddleware)
	sessionProtected.HandleFunc("/me", sessionHandler.GetMe).Methods(http.MethodGet)
	sessionProtected.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Player stats routes (require auth)
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/{player_id}/stats", statsHandler.Get).Methods(http.MethodGet)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/reconnect", roomHandler.Reconnect).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/ready", roomHandler.Ready).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/submit", roomHandler.Submit).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/restart", roomHandler.Restart).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/events", roomHandler.Events).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
