package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironhall/kiosk/internal/api"
	"github.com/ironhall/kiosk/internal/factory"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/rfid"
	"github.com/ironhall/kiosk/internal/services/auth"
	redisstorage "github.com/ironhall/kiosk/internal/storage/redis"
)

func main() {
	// Environment from .env when present; real env always wins
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	accounts, err := parseAccounts(os.Getenv("STAFF_ACCOUNTS"))
	if err != nil {
		logger.Error("invalid STAFF_ACCOUNTS", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(accounts) == 0 {
		logger.Error("STAFF_ACCOUNTS is required (email:bcrypt-hash pairs, comma separated)")
		os.Exit(1)
	}

	// Build factory config from environment
	cfg := factory.Config{
		AuthConfig:  auth.Config{Accounts: accounts},
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
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
	defer app.Close()

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

	// Seed roster sheets from the environment
	if err := seedSheets(ctx, app, os.Getenv("SHEETS")); err != nil {
		logger.Error("failed to seed sheets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire the RFID reader into the scan service
	reader := rfid.NewLineReader(logger)
	go app.ScanService.Watch(ctx, reader)

	if device := os.Getenv("RFID_DEVICE"); device != "" {
		go func() {
			if err := rfid.RunDevice(ctx, device, reader, 2*time.Second); err != nil && ctx.Err() == nil {
				logger.Error("rfid device loop stopped", slog.String("error", err.Error()))
			}
		}()
	} else {
		logger.Info("RFID_DEVICE not set, reading tags from stdin")
		go func() { _ = reader.Run(ctx, os.Stdin) }()
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Storage:       app.Storage,
		AuthService:   app.AuthService,
		RosterService: app.RosterService,
		ScanService:   app.ScanService,
		Hub:           app.Hub,
		SecureCookies: os.Getenv("SECURE_COOKIES") != "false",
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

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

// parseAccounts parses "email:bcrypt-hash" pairs separated by commas
func parseAccounts(raw string) (map[string]string, error) {
	accounts := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, hash, ok := strings.Cut(pair, ":")
		if !ok || email == "" || hash == "" {
			return nil, &parseError{pair}
		}
		accounts[email] = hash
	}
	return accounts, nil
}

// seedSheets parses "id=name" pairs separated by commas and stores them
func seedSheets(ctx context.Context, app *factory.App, raw string) error {
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, name, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return &parseError{pair}
		}
		if name == "" {
			name = id
		}
		if err := app.Storage.SaveSheet(ctx, &model.Sheet{ID: id, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

type parseError struct {
	pair string
}

func (e *parseError) Error() string {
	return "malformed pair: " + strconv.Quote(e.pair)
}
