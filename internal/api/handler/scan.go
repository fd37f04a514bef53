package handler

import (
	"net/http"

	"github.com/ironhall/kiosk/internal/api/middleware"
	"github.com/ironhall/kiosk/internal/api/response"
	"github.com/ironhall/kiosk/internal/services/scan"
)

// ScanHandler handles the staff-initiated tag capture endpoint
type ScanHandler struct {
	scanService *scan.Service
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService *scan.Service) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// Get handles GET /api/scan: it blocks until the next tag is presented to
// the reader and returns it for the registration form
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	sheetID, ok := h.scanService.SheetFor(session.Email)
	if !ok {
		WriteError(w, NewInvalidRequestError("no sheet has been selected"))
		return
	}

	scanID, err := h.scanService.ScanOnce(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct {
		ScanID  string `json:"scanID"`
		SheetID string `json:"sheetID"`
	}{scanID, sheetID})
}
