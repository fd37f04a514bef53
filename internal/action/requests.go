package action

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/state"
)

// Every request method here follows one contract: dispatch an in-flight
// event immediately, perform exactly one network operation, and dispatch a
// terminal event that carries either the decoded payload or a normalized
// error string. The terminal event is also returned so callers can chain
// without re-reading the store. Nothing is retried and nothing in flight
// is ever cancelled by a later call.

// ScanResponse is the body of GET /api/scan.
type ScanResponse struct {
	ScanID  string `json:"scanID"`
	SheetID string `json:"sheetID"`
}

// UploadResponse is the body of POST /api/upload.
type UploadResponse struct {
	FileID string `json:"fileID"`
}

// RequestClient looks up a client by badge id. If an identical lookup is
// already in flight the whole operation is skipped: no network call, no
// in-flight event, a Nop result. This is the one coordination guard in the
// system; it stops rapid repeated searches and push-driven lookups from
// stacking requests for the same key. It does not protect against two
// completed lookups racing — there, last write wins.
func (a *Actions) RequestClient(ctx context.Context, id string) state.Event {
	key := model.Key(id)
	if n, ok := a.store.State().Clients[key]; ok && n.InFlight {
		return state.Nop{}
	}

	a.store.Dispatch(state.ClientResolved{ID: key, InFlight: true})

	var c model.Client
	if err := a.api.Get(ctx, "/api/user/"+url.PathEscape(key), &c); err != nil {
		ev := state.ClientResolved{ID: key, Err: err.Error()}
		a.store.Dispatch(ev)
		return ev
	}
	ev := state.ClientResolved{ID: key, Client: c}
	a.store.Dispatch(ev)
	return ev
}

// RequestScan begins a manual RFID wait session: the server blocks until
// the next physical tag is presented and returns it as the scan id for the
// registration form.
func (a *Actions) RequestScan(ctx context.Context) state.Event {
	a.store.Dispatch(state.ManualScanSet{InFlight: true})

	var resp ScanResponse
	if err := a.api.Get(ctx, "/api/scan", &resp); err != nil {
		ev := state.ManualScanSet{Err: err.Error()}
		a.store.Dispatch(ev)
		return ev
	}
	ev := state.ManualScanSet{ID: resp.ScanID}
	a.store.Dispatch(ev)
	return ev
}

// RequestUpload uploads a captured photo and resolves to its stored file
// reference. With no photo the phase short-circuits: no network call, no
// dispatch, an empty-success result.
func (a *Actions) RequestUpload(ctx context.Context, c model.Client, photo []byte) state.UploadSet {
	if len(photo) == 0 {
		return state.UploadSet{}
	}

	a.store.Dispatch(state.UploadSet{InFlight: true})

	var resp UploadResponse
	err := a.api.Upload(ctx, "/api/upload", map[string]string{"bsID": c.BSID}, "data", c.BSID+".jpg", photo, &resp)
	if err != nil {
		ev := state.UploadSet{Err: err.Error()}
		a.store.Dispatch(ev)
		return ev
	}
	ev := state.UploadSet{FileID: resp.FileID}
	a.store.Dispatch(ev)
	return ev
}

// RequestRegister submits a create (POST) or edit (PUT) of a client
// record as a two-phase sequence: the photo upload fully resolves first,
// then the client payload is sent with Photo replaced by the uploaded file
// reference. An upload error skips phase two and becomes the register
// error. The verb is caller-supplied, never inferred.
func (a *Actions) RequestRegister(ctx context.Context, c model.Client, photo []byte, method string) state.Event {
	a.store.Dispatch(state.RegisterSet{InFlight: true})

	up := a.RequestUpload(ctx, c, photo)
	if up.Err != "" {
		ev := state.RegisterSet{Err: up.Err}
		a.store.Dispatch(ev)
		return ev
	}
	c.Photo = up.FileID

	path := "/api/user"
	call := a.api.Post
	if method == http.MethodPut {
		path += "/" + url.PathEscape(c.BSID)
		call = a.api.Put
	}
	if err := call(ctx, path, c, nil); err != nil {
		ev := state.RegisterSet{Err: err.Error()}
		a.store.Dispatch(ev)
		return ev
	}
	ev := state.RegisterSet{Done: true}
	a.store.Dispatch(ev)
	return ev
}

// RequestSetSheet selects the active workbook, then always navigates home:
// on failure the selection is cleared rather than surfaced, and the sheet
// picker is simply shown again.
func (a *Actions) RequestSetSheet(ctx context.Context, id string) state.Event {
	a.store.Dispatch(state.SheetSelected{ID: id, InFlight: true})

	if err := a.api.Post(ctx, "/api/sheet/"+url.PathEscape(id), nil, nil); err != nil {
		a.logger.Warn("sheet selection failed", slog.String("sheet", id), slog.String("error", err.Error()))
		a.store.Dispatch(state.SheetSelected{})
	} else {
		a.store.Dispatch(state.SheetSelected{ID: id})
	}
	ev := state.Navigated{Path: "/"}
	a.store.Dispatch(ev)
	return ev
}

// Logout ends the staff session. The local identity is cleared even when
// the request fails; the next authenticated call would fail anyway.
func (a *Actions) Logout(ctx context.Context) state.Event {
	if err := a.api.Post(ctx, "/logout", nil, nil); err != nil {
		a.logger.Warn("logout request failed", slog.String("error", err.Error()))
	}
	ev := state.UserSet{}
	a.store.Dispatch(ev)
	return ev
}
