package state

import "github.com/ironhall/kiosk/internal/model"

// Reducers are pure total functions from (prior slice, event) to the next
// slice. Each one recognizes the events for its own slice and returns the
// prior value unchanged for everything else. They never mutate their
// input; a changed map is a fresh copy.

func reduceClients(prior Clients, ev Event) Clients {
	switch e := ev.(type) {
	case ClientResolved:
		next := make(Clients, len(prior)+1)
		for k, v := range prior {
			next[k] = v
		}
		next[model.Key(e.ID)] = NetworkClient{
			Client:   e.Client,
			Err:      e.Err,
			InFlight: e.InFlight,
		}
		return next
	}
	return prior
}

func reduceLastFailure(prior LookupFailure, ev Event) LookupFailure {
	switch e := ev.(type) {
	case LookupFailed:
		return LookupFailure{Err: e.Err}
	}
	return prior
}

func reduceScanStatus(prior ScanStatus, ev Event) ScanStatus {
	switch e := ev.(type) {
	case ScanStatusSet:
		return ScanStatus{InFlight: e.InFlight}
	}
	return prior
}

func reduceSearch(prior string, ev Event) string {
	switch e := ev.(type) {
	case SearchSet:
		return e.Query
	}
	return prior
}

func reduceManualScan(prior ManualScan, ev Event) ManualScan {
	switch e := ev.(type) {
	case ManualScanSet:
		return ManualScan{ID: e.ID, InFlight: e.InFlight, Err: e.Err}
	}
	return prior
}

func reduceRegister(prior Register, ev Event) Register {
	switch e := ev.(type) {
	case RegisterSet:
		return Register{Done: e.Done, InFlight: e.InFlight, Err: e.Err}
	}
	return prior
}

func reduceUpload(prior Upload, ev Event) Upload {
	switch e := ev.(type) {
	case UploadSet:
		return Upload{FileID: e.FileID, InFlight: e.InFlight, Err: e.Err}
	}
	return prior
}

func reduceSheets(prior []model.Sheet, ev Event) []model.Sheet {
	switch e := ev.(type) {
	case SheetsAdded:
		next := make([]model.Sheet, 0, len(prior)+len(e.Sheets))
		next = append(next, prior...)
		next = append(next, e.Sheets...)
		return next
	}
	return prior
}

func reduceSetSheet(prior SetSheet, ev Event) SetSheet {
	switch e := ev.(type) {
	case SheetSelected:
		return SetSheet{ID: e.ID, InFlight: e.InFlight}
	}
	return prior
}

func reduceUser(prior User, ev Event) User {
	switch e := ev.(type) {
	case UserSet:
		return User{Email: e.Email}
	}
	return prior
}

func reduceServer(prior Server, ev Event) Server {
	switch e := ev.(type) {
	case SocketSet:
		return Server{WebSocket: e.Connected}
	}
	return prior
}

func reduceRouter(prior Router, ev Event) Router {
	switch e := ev.(type) {
	case Navigated:
		return Router{Path: e.Path}
	}
	return prior
}

// Reduce applies every slice reducer to the event and assembles the next
// snapshot.
func Reduce(prior All, ev Event) All {
	return All{
		Clients:     reduceClients(prior.Clients, ev),
		LastFailure: reduceLastFailure(prior.LastFailure, ev),
		ScanStatus:  reduceScanStatus(prior.ScanStatus, ev),
		Search:      reduceSearch(prior.Search, ev),
		ManualScan:  reduceManualScan(prior.ManualScan, ev),
		Register:    reduceRegister(prior.Register, ev),
		Upload:      reduceUpload(prior.Upload, ev),
		Sheets:      reduceSheets(prior.Sheets, ev),
		SetSheet:    reduceSetSheet(prior.SetSheet, ev),
		User:        reduceUser(prior.User, ev),
		Server:      reduceServer(prior.Server, ev),
		Router:      reduceRouter(prior.Router, ev),
	}
}
