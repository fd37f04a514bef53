package state

import "github.com/ironhall/kiosk/internal/model"

// Event is one discrete state transition. Events form a closed sum: every
// reducer switches over the concrete types it handles and returns its
// prior slice untouched for anything else, so an unrecognized event is a
// no-op, never an error.
//
// Events carry every field of the slice they target. Reducers replace
// slices wholesale; there is no partial-field update.
type Event interface {
	isEvent()
}

// Nop is the event produced when an operation decides to do nothing, such
// as a client lookup skipped by the de-duplication guard.
type Nop struct{}

// ClientResolved records the outcome of one client lookup under its badge
// key: pending (InFlight), failed (Err non-empty), or successful (Client
// populated). The clients reducer replaces the whole cache entry from it.
type ClientResolved struct {
	ID       string
	Client   model.Client
	Err      string
	InFlight bool
}

// LookupFailed stores the most recent scan or lookup failure. This is its
// own slice rather than a sentinel entry in the client cache, so a badge
// literally named "error" can never collide with it.
type LookupFailed struct {
	Err string
}

// ScanStatusSet toggles the global scanning-in-progress indicator.
type ScanStatusSet struct {
	InFlight bool
}

// SearchSet replaces the staff search input.
type SearchSet struct {
	Query string
}

// ManualScanSet replaces the manual-scan slice: the staff-initiated "wait
// for the next physical tag" session used by the registration form.
type ManualScanSet struct {
	ID       string
	InFlight bool
	Err      string
}

// RegisterSet replaces the registration completion tracker. Shared by the
// create and edit flows.
type RegisterSet struct {
	Done     bool
	InFlight bool
	Err      string
}

// UploadSet replaces the photo-upload tracker.
type UploadSet struct {
	FileID   string
	InFlight bool
	Err      string
}

// SheetsAdded appends workbooks to the sheet list.
type SheetsAdded struct {
	Sheets []model.Sheet
}

// SheetSelected replaces the selected-sheet slice.
type SheetSelected struct {
	ID       string
	InFlight bool
}

// UserSet replaces the session identity. An empty email means
// unauthenticated.
type UserSet struct {
	Email string
}

// SocketSet records push-channel liveness. It is driven strictly by
// explicit connect/disconnect notifications, never derived from the
// socket object itself.
type SocketSet struct {
	Connected bool
}

// Navigated replaces the current route.
type Navigated struct {
	Path string
}

func (Nop) isEvent()            {}
func (ClientResolved) isEvent() {}
func (LookupFailed) isEvent()   {}
func (ScanStatusSet) isEvent()  {}
func (SearchSet) isEvent()      {}
func (ManualScanSet) isEvent()  {}
func (RegisterSet) isEvent()    {}
func (UploadSet) isEvent()      {}
func (SheetsAdded) isEvent()    {}
func (SheetSelected) isEvent()  {}
func (UserSet) isEvent()        {}
func (SocketSet) isEvent()      {}
func (Navigated) isEvent()      {}
