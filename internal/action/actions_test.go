package action

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/ironhall/kiosk/internal/dependencies/mocks"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/rest"
	"github.com/ironhall/kiosk/internal/sound"
	"github.com/ironhall/kiosk/internal/state"
	"github.com/ironhall/kiosk/internal/testutil"
)

type ActionsSuite struct {
	suite.Suite
	store   *state.Store
	sound   *sound.Recorder
	clock   *mocks.MockClock
	actions *Actions
	server  *httptest.Server
	router  *mux.Router
	ctx     context.Context

	mu       sync.Mutex
	requests []string
}

func TestActionsSuite(t *testing.T) {
	suite.Run(t, new(ActionsSuite))
}

func (s *ActionsSuite) SetupTest() {
	s.store = state.NewStore()
	s.sound = &sound.Recorder{}
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.router = mux.NewRouter()
	s.requests = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		s.router.ServeHTTP(w, r)
	}))
	s.actions = New(s.store, rest.NewClient(s.server.URL), s.sound, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ActionsSuite) TearDownTest() {
	s.server.Close()
}

func (s *ActionsSuite) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *ActionsSuite) requestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *ActionsSuite) member(bsID string) model.Client {
	return model.Client{
		BSID:       bsID,
		Email:      "m@example.com",
		Expiration: s.clock.Now().Add(30 * 24 * time.Hour),
		ID:         "tag-" + bsID,
		Name:       "Member " + bsID,
	}
}

func (s *ActionsSuite) serveJSON(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *ActionsSuite) serveError(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}
}

// RequestClient

func (s *ActionsSuite) TestRequestClientSuccess() {
	c := s.member("BS42")
	s.router.HandleFunc("/api/user/{id}", s.serveJSON(c)).Methods(http.MethodGet)

	ev := s.actions.RequestClient(s.ctx, "BS42")

	s.Equal(state.ClientResolved{ID: "bs42", Client: c}, ev)
	entry := s.store.State().Clients["bs42"]
	s.Equal(c, entry.Client)
	s.Empty(entry.Err)
	s.False(entry.InFlight)
}

func (s *ActionsSuite) TestRequestClientDispatchesInFlightFirst() {
	s.router.HandleFunc("/api/user/{id}", s.serveJSON(s.member("BS42"))).Methods(http.MethodGet)

	var order []bool
	s.store.Subscribe(func(ev state.Event) {
		if cr, ok := ev.(state.ClientResolved); ok {
			order = append(order, cr.InFlight)
		}
	})

	s.actions.RequestClient(s.ctx, "bs42")
	s.Equal([]bool{true, false}, order)
}

func (s *ActionsSuite) TestRequestClientServerError() {
	s.router.HandleFunc("/api/user/{id}", s.serveError(http.StatusNotFound, `user "zz" was not found`)).Methods(http.MethodGet)

	ev := s.actions.RequestClient(s.ctx, "zz")

	cr, ok := ev.(state.ClientResolved)
	s.Require().True(ok)
	s.Equal(`user "zz" was not found`, cr.Err)
	s.False(s.store.State().Clients["zz"].InFlight, "error must settle the in-flight flag")
}

func (s *ActionsSuite) TestRequestClientStatusTextFallback() {
	s.router.HandleFunc("/api/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "", http.StatusBadGateway)
	}).Methods(http.MethodGet)

	ev := s.actions.RequestClient(s.ctx, "bs42")
	s.Equal("Bad Gateway", ev.(state.ClientResolved).Err)
}

func (s *ActionsSuite) TestRequestClientDeduplicatesInFlightKey() {
	s.store.Dispatch(state.ClientResolved{ID: "bs42", InFlight: true})

	var inFlightEvents int
	s.store.Subscribe(func(ev state.Event) {
		if cr, ok := ev.(state.ClientResolved); ok && cr.InFlight {
			inFlightEvents++
		}
	})

	ev := s.actions.RequestClient(s.ctx, "BS42")

	s.Equal(state.Nop{}, ev)
	s.Zero(s.requestCount(), "no network call for an in-flight key")
	s.Zero(inFlightEvents, "no in-flight event for a de-duplicated lookup")
}

func (s *ActionsSuite) TestRequestClientGuardOnlyCoversSameKey() {
	s.store.Dispatch(state.ClientResolved{ID: "other", InFlight: true})
	s.router.HandleFunc("/api/user/{id}", s.serveJSON(s.member("BS42"))).Methods(http.MethodGet)

	s.actions.RequestClient(s.ctx, "bs42")
	s.Equal(1, s.requestCount())
}

func (s *ActionsSuite) TestRaceLastResponseWins() {
	// A search-driven lookup and a push-driven resolution race on one key.
	// The search response is held until the push outcome has landed, so it
	// resolves last and must win.
	release := make(chan struct{})
	fromSearch := s.member("BS42")
	fromSearch.Name = "From Search"
	s.router.HandleFunc("/api/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		<-release
		s.serveJSON(fromSearch)(w, r)
	}).Methods(http.MethodGet)

	done := make(chan state.Event, 1)
	go func() {
		done <- s.actions.RequestClient(s.ctx, "bs42")
	}()

	// Wait until the lookup is in flight before racing the push frame.
	s.Require().Eventually(func() bool {
		return s.store.State().Clients["bs42"].InFlight
	}, time.Second, time.Millisecond)

	s.actions.HandleFrame([]byte(`{"bsID":"BS42","name":"From Push","expiration":"2030-01-01T00:00:00Z"}`))
	s.Equal("From Push", s.store.State().Clients["bs42"].Client.Name)

	close(release)
	<-done
	s.Equal("From Search", s.store.State().Clients["bs42"].Client.Name,
		"whichever resolution lands last wins, with no staleness check")
}

// RequestScan

func (s *ActionsSuite) TestRequestScanSuccess() {
	s.router.HandleFunc("/api/scan", s.serveJSON(ScanResponse{ScanID: "tag77", SheetID: "s1"})).Methods(http.MethodGet)

	ev := s.actions.RequestScan(s.ctx)
	s.Equal(state.ManualScanSet{ID: "tag77"}, ev)
	s.Equal("tag77", s.store.State().ManualScan.ID)
}

func (s *ActionsSuite) TestRequestScanTimeoutSurfacesError() {
	s.router.HandleFunc("/api/scan", s.serveError(http.StatusBadRequest, "timed out waiting for RFID scan")).Methods(http.MethodGet)

	ev := s.actions.RequestScan(s.ctx)
	s.Equal(state.ManualScanSet{Err: "timed out waiting for RFID scan"}, ev)
	s.False(s.store.State().ManualScan.InFlight)
}

// RequestUpload / RequestRegister

func (s *ActionsSuite) TestRegisterWithoutPhotoSkipsUpload() {
	s.router.HandleFunc("/api/user", s.serveJSON(map[string]string{})).Methods(http.MethodPost)

	ev := s.actions.RequestRegister(s.ctx, s.member("BS42"), nil, http.MethodPost)

	s.Equal(state.RegisterSet{Done: true}, ev)
	s.Equal([]string{"POST /api/user"}, s.requestLog(), "no upload call without a photo")
	s.Equal(state.Upload{}, s.store.State().Upload, "upload slice untouched by the short-circuit")
}

func (s *ActionsSuite) TestRegisterWithPhotoUploadsThenUpdates() {
	var updated model.Client
	s.router.HandleFunc("/api/upload", s.serveJSON(UploadResponse{FileID: "file-1"})).Methods(http.MethodPost)
	s.router.HandleFunc("/api/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&updated)
		s.serveJSON(map[string]string{})(w, r)
	}).Methods(http.MethodPut)

	ev := s.actions.RequestRegister(s.ctx, s.member("BS42"), []byte("jpegbytes"), http.MethodPut)

	s.Equal(state.RegisterSet{Done: true}, ev)
	s.Equal([]string{"POST /api/upload", "PUT /api/user/BS42"}, s.requestLog())
	s.Equal("file-1", updated.Photo, "payload carries the uploaded file reference")
	s.Equal("file-1", s.store.State().Upload.FileID)
}

func (s *ActionsSuite) TestRegisterUploadFailureSkipsPhaseTwo() {
	s.router.HandleFunc("/api/upload", s.serveError(http.StatusInternalServerError, "disk full")).Methods(http.MethodPost)

	ev := s.actions.RequestRegister(s.ctx, s.member("BS42"), []byte("jpegbytes"), http.MethodPost)

	s.Equal(state.RegisterSet{Err: "disk full"}, ev)
	s.Equal([]string{"POST /api/upload"}, s.requestLog(), "create call must not run after a failed upload")
	s.False(s.store.State().Register.Done)
}

func (s *ActionsSuite) TestRegisterCreateFailure() {
	s.router.HandleFunc("/api/user", s.serveError(http.StatusBadRequest, "mail: missing '@'")).Methods(http.MethodPost)

	ev := s.actions.RequestRegister(s.ctx, s.member("BS42"), nil, http.MethodPost)
	s.Equal(state.RegisterSet{Err: "mail: missing '@'"}, ev)
}

// RequestSetSheet

func (s *ActionsSuite) TestSetSheetNavigatesHomeOnSuccess() {
	s.router.HandleFunc("/api/sheet/{id}", s.serveJSON(map[string]string{"sheetID": "s1"})).Methods(http.MethodPost)

	ev := s.actions.RequestSetSheet(s.ctx, "s1")
	s.Equal(state.Navigated{Path: "/"}, ev)
	s.Equal(state.SetSheet{ID: "s1"}, s.store.State().SetSheet)
	s.Equal("/", s.store.State().Router.Path)
}

func (s *ActionsSuite) TestSetSheetClearsSelectionOnFailureButStillNavigates() {
	s.router.HandleFunc("/api/sheet/{id}", s.serveError(http.StatusInternalServerError, "boom")).Methods(http.MethodPost)

	ev := s.actions.RequestSetSheet(s.ctx, "s1")
	s.Equal(state.Navigated{Path: "/"}, ev)
	s.Equal(state.SetSheet{}, s.store.State().SetSheet)
}

// Logout

func (s *ActionsSuite) TestLogoutClearsUser() {
	s.router.HandleFunc("/logout", s.serveJSON(map[string]string{})).Methods(http.MethodPost)
	s.store.Dispatch(state.UserSet{Email: "staff@example.com"})

	s.actions.Logout(s.ctx)
	s.False(s.store.State().Authenticated())
}

func (s *ActionsSuite) TestLogoutClearsUserEvenWhenRequestFails() {
	s.store.Dispatch(state.UserSet{Email: "staff@example.com"})
	s.router.HandleFunc("/logout", s.serveError(http.StatusInternalServerError, "boom")).Methods(http.MethodPost)

	s.actions.Logout(s.ctx)
	s.False(s.store.State().Authenticated())
}

// Navigation helpers

func (s *ActionsSuite) TestGoHomeResetsTransientState() {
	s.store.Dispatch(state.SearchSet{Query: "bs4"})
	s.store.Dispatch(state.ManualScanSet{ID: "tag1"})
	s.store.Dispatch(state.RegisterSet{Done: true})
	s.store.Dispatch(state.Navigated{Path: "/register"})

	s.actions.GoHome()

	st := s.store.State()
	s.Equal("/", st.Router.Path)
	s.Empty(st.Search)
	s.Equal(state.ManualScan{}, st.ManualScan)
	s.Equal(state.Register{}, st.Register)
}

// Bootstrap

func (s *ActionsSuite) TestSeed() {
	c := s.member("BS42")
	s.actions.Seed(model.Bootstrap{
		Sheets:  []model.Sheet{{ID: "s1", Name: "Main"}},
		Email:   "staff@example.com",
		SheetID: "s1",
		Client:  c,
	})

	st := s.store.State()
	s.Len(st.Sheets, 1)
	s.True(st.Authenticated())
	s.Equal("s1", st.SetSheet.ID)
	s.Equal(c, st.Clients["bs42"].Client)
}

func (s *ActionsSuite) TestSeedWithClientError() {
	s.actions.Seed(model.Bootstrap{
		Email:       "staff@example.com",
		ClientError: `"zz" is not a valid ID`,
	})

	st := s.store.State()
	s.Equal(`"zz" is not a valid ID`, st.LastFailure.Err)
	s.Equal("/scan/error", st.Router.Path)
}
