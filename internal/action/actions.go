// Package action holds the kiosk's action creators: the only code that
// turns user input, HTTP responses, and push messages into store events.
// Synchronous creators dispatch a single event; asynchronous creators
// bracket exactly one network operation between an in-flight event and a
// terminal event, converting every failure into a normalized error string
// so callers never see a rejected operation.
package action

import (
	"log/slog"

	"github.com/ironhall/kiosk/internal/dependencies/clock"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/rest"
	"github.com/ironhall/kiosk/internal/sound"
	"github.com/ironhall/kiosk/internal/state"
)

// Actions binds the creators to their collaborators. The store is the only
// shared mutable state; everything else is read-only or side-effect-only.
type Actions struct {
	store  *state.Store
	api    *rest.Client
	sound  sound.Player
	clock  clock.Clock
	logger *slog.Logger
}

// New creates the action set.
func New(store *state.Store, api *rest.Client, player sound.Player, clk clock.Clock, logger *slog.Logger) *Actions {
	return &Actions{
		store:  store,
		api:    api,
		sound:  player,
		clock:  clk,
		logger: logger.With(slog.String("component", "action")),
	}
}

// SetUser records the staff session identity.
func (a *Actions) SetUser(email string) state.Event {
	ev := state.UserSet{Email: email}
	a.store.Dispatch(ev)
	return ev
}

// SetWebSocket records push-channel liveness.
func (a *Actions) SetWebSocket(connected bool) state.Event {
	ev := state.SocketSet{Connected: connected}
	a.store.Dispatch(ev)
	return ev
}

// SetSearch replaces the staff search input.
func (a *Actions) SetSearch(query string) state.Event {
	ev := state.SearchSet{Query: query}
	a.store.Dispatch(ev)
	return ev
}

// scanClient resolves a scan to a known client: the cue sounds before the
// event is dispatched, ok for a clean check-in and err for debt or expiry.
func (a *Actions) scanClient(c model.Client) state.Event {
	if c.OK(a.clock.Now()) {
		a.sound.OK()
	} else {
		a.sound.Err()
	}
	ev := state.Navigated{Path: "/scan/" + c.Key()}
	a.store.Dispatch(ev)
	return ev
}

// scanError resolves a scan to a failure: err cue, failure slice, error
// view.
func (a *Actions) scanError(msg string) state.Event {
	a.sound.Err()
	a.store.Dispatch(state.LookupFailed{Err: msg})
	ev := state.Navigated{Path: "/scan/error"}
	a.store.Dispatch(ev)
	return ev
}

// GoHome returns the UI to the idle view and clears transient input.
func (a *Actions) GoHome() state.Event {
	a.store.Dispatch(state.Navigated{Path: "/"})
	a.store.Dispatch(state.SearchSet{})
	a.store.Dispatch(state.ManualScanSet{})
	ev := state.RegisterSet{}
	a.store.Dispatch(ev)
	return ev
}

// ClearRegistration resets the registration form's trackers without
// leaving the current view.
func (a *Actions) ClearRegistration() state.Event {
	a.store.Dispatch(state.ManualScanSet{})
	ev := state.RegisterSet{}
	a.store.Dispatch(ev)
	return ev
}

// Seed consumes the server-embedded bootstrap payload once at startup, so
// the first render has sheets, identity, and any pre-resolved client
// without a round trip.
func (a *Actions) Seed(b model.Bootstrap) {
	a.store.Dispatch(state.SheetsAdded{Sheets: b.Sheets})
	a.store.Dispatch(state.UserSet{Email: b.Email})
	if b.SheetID != "" {
		a.store.Dispatch(state.SheetSelected{ID: b.SheetID})
	}
	if b.ClientError != "" {
		a.store.Dispatch(state.LookupFailed{Err: b.ClientError})
		a.store.Dispatch(state.Navigated{Path: "/scan/error"})
	}
	if b.Client.BSID != "" {
		a.store.Dispatch(state.ClientResolved{ID: b.Client.Key(), Client: b.Client})
	}
}
