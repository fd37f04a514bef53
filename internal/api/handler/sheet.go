package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/api/response"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/services/roster"
	"github.com/ironhall/kiosk/internal/services/scan"
	"github.com/ironhall/kiosk/internal/storage"
)

// SheetHandler handles sheet selection and the bootstrap payload
type SheetHandler struct {
	storage       storage.Storage
	rosterService *roster.Service
	scanService   *scan.Service
}

// NewSheetHandler creates a new sheet handler
func NewSheetHandler(storage storage.Storage, rosterService *roster.Service, scanService *scan.Service) *SheetHandler {
	return &SheetHandler{
		storage:       storage,
		rosterService: rosterService,
		scanService:   scanService,
	}
}

// List handles GET /api/sheets
func (h *SheetHandler) List(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.storage.ListSheets(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct {
		Sheets []model.Sheet `json:"sheets"`
	}{sheets})
}

// Select handles POST /api/sheet/{id}
func (h *SheetHandler) Select(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	sheetID := mux.Vars(r)["id"]

	if _, err := h.storage.GetSheet(r.Context(), sheetID); err != nil {
		WriteError(w, err)
		return
	}

	h.scanService.SetSheet(session.Email, sheetID)

	response.JSON(w, http.StatusOK, struct {
		SheetID string `json:"sheetID"`
	}{sheetID})
}

// Bootstrap handles GET /api/bootstrap. It assembles the initial state a
// kiosk seeds its store with: the sheet list, the staff identity, the
// active sheet and, when ?client= names a badge, that member record.
func (h *SheetHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	sheets, err := h.storage.ListSheets(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	b := model.Bootstrap{
		Sheets: sheets,
		Email:  session.Email,
	}

	sheetID, ok := h.scanService.SheetFor(session.Email)
	if ok {
		b.SheetID = sheetID
	}

	if bsID := r.URL.Query().Get("client"); bsID != "" && ok {
		c, err := h.rosterService.Lookup(r.Context(), sheetID, bsID)
		if err != nil {
			b.ClientError = err.Error()
		} else {
			b.Client = *c
		}
	}

	response.JSON(w, http.StatusOK, b)
}
