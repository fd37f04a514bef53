package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ironhall/kiosk/internal/api/response"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/storage"
)

// Member photos are captured by a webcam at the desk; anything larger than
// this is not a webcam frame.
const maxUploadBytes = 10 << 20

// Photos are stored as bounded thumbnails; kiosk screens never show more
// than a badge-sized portrait.
const photoBound = 512

// UploadHandler handles member photo upload and retrieval
type UploadHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storage storage.Storage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		logger:  logger,
	}
}

// Create handles POST /api/upload
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	f, _, err := r.FormFile("data")
	if err != nil {
		WriteError(w, NewInvalidRequestError("a photo file named data is required"))
		return
	}
	defer func() { _ = f.Close() }()

	bsID := r.FormValue("bsID")
	if bsID == "" {
		WriteError(w, NewInvalidRequestError("bsID is required"))
		return
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		WriteError(w, NewInvalidRequestError("the uploaded file is not a decodable image"))
		return
	}

	thumb := imaging.Fit(img, photoBound, photoBound, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		h.logger.Error("failed to encode photo", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	upload := &model.Upload{
		ID:          uuid.NewString(),
		BSID:        model.Key(bsID),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}
	if err := h.storage.SaveUpload(r.Context(), upload); err != nil {
		h.logger.Error("failed to store photo", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct {
		FileID string `json:"fileID"`
	}{upload.ID})
}

// Photo handles GET /photo/{id}
func (h *UploadHandler) Photo(w http.ResponseWriter, r *http.Request) {
	upload, err := h.storage.GetUpload(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", upload.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	_, _ = w.Write(upload.Data)
}
