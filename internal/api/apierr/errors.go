package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/services/auth"
	"github.com/ironhall/kiosk/internal/services/roster"
)

// ErrorResponse is the wire shape of every error the API returns. Kiosk
// clients surface the Error string verbatim, so messages here are written
// for the person standing at the screen.
type ErrorResponse struct {
	Error string `json:"error"`
}

// httpError combines an HTTP status code with a client-facing message
type httpError struct {
	status  int
	message string
}

// Error implements the error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Not-found errors keep their message so the kiosk can show which
	// badge or tag missed
	if model.IsNotFound(err) {
		return &httpError{http.StatusNotFound, err.Error()}
	}

	switch {
	case errors.Is(err, model.ErrSheetNotFound),
		errors.Is(err, model.ErrUploadNotFound):
		return &httpError{http.StatusNotFound, err.Error()}

	// The scan endpoint historically reported both contention and
	// timeout as bad requests; kiosk clients rely on the message text
	case errors.Is(err, model.ErrScanBusy),
		errors.Is(err, model.ErrScanTimeout):
		return &httpError{http.StatusBadRequest, err.Error()}

	case errors.Is(err, roster.ErrBadgeRequired),
		errors.Is(err, roster.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, err.Error()}
	case errors.Is(err, roster.ErrAlreadyExists):
		return &httpError{http.StatusConflict, err.Error()}

	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, "invalid email or password"}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, "invalid or expired session"}

	default:
		return &httpError{http.StatusInternalServerError, "internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, "authentication required"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, "internal server error"}
}
