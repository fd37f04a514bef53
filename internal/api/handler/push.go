package handler

import (
	"log/slog"
	"net/http"

	"github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/push"
)

// PushHandler upgrades kiosks to their websocket push channel
type PushHandler struct {
	hub    *push.Hub
	logger *slog.Logger
}

// NewPushHandler creates a new push handler
func NewPushHandler(hub *push.Hub, logger *slog.Logger) *PushHandler {
	return &PushHandler{
		hub:    hub,
		logger: logger,
	}
}

// Connect handles GET /api/ws. Each kiosk subscribes to its own staff email
// as a topic so scan outcomes only reach kiosks working the matching sheet.
func (h *PushHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	push.ServeWS(h.hub, w, r, session.Email, []string{session.Email}, h.logger)
}
