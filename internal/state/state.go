// Package state holds the kiosk's view-state store: one authoritative,
// serializable snapshot of everything the UI can show, mutated only
// through pure reducers applied by Dispatch.
package state

import "github.com/ironhall/kiosk/internal/model"

// NetworkClient is one entry in the client cache. The three fields
// coexist; presentation treats a non-empty Err as authoritative over a
// stale Client payload, and InFlight marks a pending lookup.
type NetworkClient struct {
	Client   model.Client
	Err      string
	InFlight bool
}

// Clients maps the lower-cased badge id to the latest lookup outcome for
// that badge. Entries are only ever overwritten, never removed.
type Clients map[string]NetworkClient

// LookupFailure is the most recent scan failure, displayed by the scan
// error view.
type LookupFailure struct {
	Err string
}

// ScanStatus is the global scanning-in-progress indicator driven by push
// pulses.
type ScanStatus struct {
	InFlight bool
}

// ManualScan tracks the staff-initiated RFID wait used when registering a
// new member.
type ManualScan struct {
	ID       string
	InFlight bool
	Err      string
}

// Register tracks completion of a create or edit submission.
type Register struct {
	Done     bool
	InFlight bool
	Err      string
}

// Upload tracks the photo-upload sub-step of registration.
type Upload struct {
	FileID   string
	InFlight bool
	Err      string
}

// SetSheet is the selected workbook.
type SetSheet struct {
	ID       string
	InFlight bool
}

// User is the staff session identity.
type User struct {
	Email string
}

// Server reflects push-channel liveness.
type Server struct {
	WebSocket bool
}

// Router is the current route. Navigation mechanics live outside the
// store; only the path is tracked so views and tests can observe it.
type Router struct {
	Path string
}

// All is the complete store snapshot. Slices are disjoint: no event is
// handled by more than one reducer, so reducer order never matters.
type All struct {
	Clients     Clients
	LastFailure LookupFailure
	ScanStatus  ScanStatus
	Search      string
	ManualScan  ManualScan
	Register    Register
	Upload      Upload
	Sheets      []model.Sheet
	SetSheet    SetSheet
	User        User
	Server      Server
	Router      Router
}

// Initial returns the store's explicit starting snapshot.
func Initial() All {
	return All{
		Clients: Clients{},
		Router:  Router{Path: "/"},
	}
}

// Authenticated reports whether a staff session is active.
func (a All) Authenticated() bool {
	return a.User.Email != ""
}
