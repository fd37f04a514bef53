package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ironhall/kiosk/internal/dependencies/clock"
	"github.com/ironhall/kiosk/internal/push"
	"github.com/ironhall/kiosk/internal/services/auth"
	"github.com/ironhall/kiosk/internal/services/roster"
	"github.com/ironhall/kiosk/internal/services/scan"
	"github.com/ironhall/kiosk/internal/storage"
	"github.com/ironhall/kiosk/internal/storage/memory"
	redisstorage "github.com/ironhall/kiosk/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired server components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService   *auth.Service
	RosterService *roster.Service
	ScanService   *scan.Service
	Hub           *push.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds staff accounts and session settings (optional)
	AuthConfig auth.Config
	// ScanConfig holds scan capture settings (optional)
	ScanConfig scan.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired. The hub's event
// loop is started; callers own its shutdown via App.Close.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}

	return newWithDependencies(store, clk, authCfg, cfg.ScanConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, scanCfg scan.Config, logger *slog.Logger) *App {
	authService := auth.New(clk, authCfg)
	rosterService := roster.New(store, clk)
	hub := push.NewHub(logger)
	go hub.Run()
	scanService := scan.New(rosterService, hub, logger, scanCfg)

	return &App{
		Storage:       store,
		Clock:         clk,
		AuthService:   authService,
		RosterService: rosterService,
		ScanService:   scanService,
		Hub:           hub,
	}
}

// Close stops background components
func (a *App) Close() {
	a.Hub.Close()
}
