package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/spellduel-go/internal/api/sse"
	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/dependencies/random"
	"github.com/mcoot/spellduel-go/internal/services/auth"
	"github.com/mcoot/spellduel-go/internal/services/match"
	"github.com/mcoot/spellduel-go/internal/services/puzzle"
	"github.com/mcoot/spellduel-go/internal/services/reconnect"
	"github.com/mcoot/spellduel-go/internal/services/registry"
	"github.com/mcoot/spellduel-go/internal/services/stats"
	"github.com/mcoot/spellduel-go/internal/services/timer"
	"github.com/mcoot/spellduel-go/internal/storage"
	"github.com/mcoot/spellduel-go/internal/storage/memory"
	redisstorage "github.com/mcoot/spellduel-go/internal/storage/redis"
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

	// Services
	RoundTimer       timer.RoundTimer
	PuzzleService    *puzzle.Service
	Registry         *registry.Service
	StatsService     *stats.Service
	MatchController  *match.Controller
	ReconnectManager *reconnect.Manager
	AuthService      *auth.Service
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// PuzzlePath is the path to the puzzle set file (optional)
	// If empty, puzzles must be loaded manually
	PuzzlePath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// TeardownGrace is how long an abandoned room survives (optional)
	// If zero, defaults to reconnect.DefaultGrace
	TeardownGrace time.Duration
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	roundTimer := timer.New(logger)

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, roundTimer, authCfg, cfg.TeardownGrace, logger)

	if cfg.PuzzlePath != "" {
		if err := app.PuzzleService.LoadFromFile(context.Background(), cfg.PuzzlePath); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	roundTimer timer.RoundTimer,
	authCfg auth.Config,
	teardownGrace time.Duration,
	logger *slog.Logger,
) *App {
	// Create services
	puzzleService := puzzle.New(store, rnd, logger)
	registryService := registry.New(store, puzzleService, clk, rnd, logger)
	statsService := stats.New(store, clk, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	matchController := match.NewController(registryService, puzzleService, roundTimer, statsService, broadcaster, clk, logger)
	reconnectManager := reconnect.NewManager(registryService, roundTimer, broadcaster, teardownGrace, logger)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		RoundTimer:       roundTimer,
		PuzzleService:    puzzleService,
		Registry:         registryService,
		StatsService:     statsService,
		MatchController:  matchController,
		ReconnectManager: reconnectManager,
		AuthService:      authService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}
