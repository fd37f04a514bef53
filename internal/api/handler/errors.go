package handler

import "github.com/ironhall/kiosk/internal/api/apierr"

// Re-exported for brevity in handlers
var (
	WriteError             = apierr.WriteError
	NewInvalidRequestError = apierr.NewInvalidRequestError
)
