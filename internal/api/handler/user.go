package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/api/response"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/services/roster"
	"github.com/ironhall/kiosk/internal/services/scan"
)

// UserHandler handles member roster endpoints
type UserHandler struct {
	rosterService *roster.Service
	scanService   *scan.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(rosterService *roster.Service, scanService *scan.Service) *UserHandler {
	return &UserHandler{
		rosterService: rosterService,
		scanService:   scanService,
	}
}

// activeSheet resolves the kiosk's selected sheet from its session
func (h *UserHandler) activeSheet(r *http.Request) (string, error) {
	session := middleware.MustGetSession(r.Context())
	sheetID, ok := h.scanService.SheetFor(session.Email)
	if !ok {
		return "", NewInvalidRequestError("no sheet has been selected")
	}
	return sheetID, nil
}

// Get handles GET /api/user/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	sheetID, err := h.activeSheet(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	c, err := h.rosterService.Lookup(r.Context(), sheetID, mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Create handles POST /api/user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	sheetID, err := h.activeSheet(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var c model.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.rosterService.Register(r.Context(), sheetID, &c)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, created)
}

// Update handles PUT /api/user/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	sheetID, err := h.activeSheet(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var c model.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.rosterService.Update(r.Context(), sheetID, mux.Vars(r)["id"], &c)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}
