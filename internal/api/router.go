package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ironhall/kiosk/internal/api/handler"
	apimiddleware "github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/middleware"
	"github.com/ironhall/kiosk/internal/push"
	"github.com/ironhall/kiosk/internal/services/auth"
	"github.com/ironhall/kiosk/internal/services/roster"
	"github.com/ironhall/kiosk/internal/services/scan"
	"github.com/ironhall/kiosk/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Storage       storage.Storage
	AuthService   *auth.Service
	RosterService *roster.Service
	ScanService   *scan.Service
	Hub           *push.Hub

	// SecureCookies controls the Secure flag on session cookies
	SecureCookies bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.AuthService, cfg.SecureCookies)
	userHandler := handler.NewUserHandler(cfg.RosterService, cfg.ScanService)
	scanHandler := handler.NewScanHandler(cfg.ScanService)
	uploadHandler := handler.NewUploadHandler(cfg.Storage, cfg.Logger)
	sheetHandler := handler.NewSheetHandler(cfg.Storage, cfg.RosterService, cfg.ScanService)
	pushHandler := handler.NewPushHandler(cfg.Hub, cfg.Logger)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)
	metricsMiddleware := apimiddleware.Metrics()

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	// Session routes (no auth required for login)
	r.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// API routes (all require a staff session)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/user/{id}", userHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/user", userHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/user/{id}", userHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/scan", scanHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/upload", uploadHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sheets", sheetHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sheet/{id}", sheetHandler.Select).Methods(http.MethodPost)
	api.HandleFunc("/bootstrap", sheetHandler.Bootstrap).Methods(http.MethodGet)
	api.HandleFunc("/ws", pushHandler.Connect).Methods(http.MethodGet)

	// Photos require a session too; member portraits are not public
	photos := r.PathPrefix("/photo").Subrouter()
	photos.Use(authMiddleware)
	photos.HandleFunc("/{id}", uploadHandler.Photo).Methods(http.MethodGet)

	// Operational endpoints (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
