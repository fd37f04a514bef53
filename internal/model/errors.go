package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSheetNotFound indicates an unknown sheet id.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrUploadNotFound indicates an unknown upload id.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrScanBusy indicates another staff session is already waiting for
	// a manual RFID scan.
	ErrScanBusy = errors.New("another client is currently reading an RFID value")
	// ErrScanTimeout indicates no tag was presented within the manual
	// scan window.
	ErrScanTimeout = errors.New("timed out waiting for RFID scan")
)

// NotFoundError is returned when a named resource does not exist. The API
// layer maps it to a 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q was not found", e.Resource, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
