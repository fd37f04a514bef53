package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/api/request"
	"github.com/ironhall/kiosk/internal/api/response"
	"github.com/ironhall/kiosk/internal/services/auth"
)

// SessionHandler handles staff login and logout
type SessionHandler struct {
	authService *auth.Service
	secure      bool
}

// NewSessionHandler creates a new session handler. secure controls the
// Secure flag on the session cookie and should be false only for local
// development over plain HTTP.
func NewSessionHandler(authService *auth.Service, secure bool) *SessionHandler {
	return &SessionHandler{
		authService: authService,
		secure:      secure,
	}
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	response.JSON(w, http.StatusOK, struct {
		Email string `json:"email"`
	}{session.Email})
}

// Logout handles POST /logout. Logging out without a valid session still
// succeeds; the kiosk clears its local identity either way.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusOK)
}
