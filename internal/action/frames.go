package action

import (
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/state"
)

// HandleFrame consumes one raw push-channel message. The frame is decoded
// into its tagged form once, then exactly one of three outcomes runs:
//
//   - a scanning pulse updates the global in-flight indicator and nothing
//     else;
//   - an identified client is stored under its badge key and the UI
//     navigates to its detail view;
//   - anything else is a scan failure: the failure slice is set and the UI
//     navigates to the error view.
//
// The two terminal outcomes also settle the in-flight indicator.
func (a *Actions) HandleFrame(raw []byte) state.Event {
	switch f := model.DecodeFrame(raw).(type) {
	case model.ScanPulse:
		ev := state.ScanStatusSet{InFlight: f.Scanning}
		a.store.Dispatch(ev)
		return ev
	case model.ScanMatch:
		a.store.Dispatch(state.ClientResolved{ID: f.Client.Key(), Client: f.Client})
		a.scanClient(f.Client)
		ev := state.ScanStatusSet{InFlight: false}
		a.store.Dispatch(ev)
		return ev
	case model.ScanFailure:
		a.scanError(f.Err)
		ev := state.ScanStatusSet{InFlight: false}
		a.store.Dispatch(ev)
		return ev
	}
	return state.Nop{}
}

// OnMessage adapts HandleFrame to the subscription bridge's handler
// interface.
func (a *Actions) OnMessage(raw []byte) {
	a.HandleFrame(raw)
}
