package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ironhall/kiosk/internal/dependencies/mocks"
	"github.com/ironhall/kiosk/internal/sound"
	"github.com/ironhall/kiosk/internal/state"
	"github.com/ironhall/kiosk/internal/testutil"
)

type FramesSuite struct {
	suite.Suite
	store   *state.Store
	sound   *sound.Recorder
	clock   *mocks.MockClock
	actions *Actions
}

func TestFramesSuite(t *testing.T) {
	suite.Run(t, new(FramesSuite))
}

func (s *FramesSuite) SetupTest() {
	s.store = state.NewStore()
	s.sound = &sound.Recorder{}
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	// Frame handling performs no HTTP; the API client stays nil-safe by
	// never being exercised here.
	s.actions = New(s.store, nil, s.sound, s.clock, testutil.NopLogger())
}

func (s *FramesSuite) TestPulseUpdatesOnlyScanStatus() {
	before := s.store.State()
	s.actions.HandleFrame([]byte(`{"scanning": true}`))

	st := s.store.State()
	s.True(st.ScanStatus.InFlight)
	s.Empty(s.sound.Cues, "a pulse never sounds a cue")
	s.Equal(before.Router, st.Router, "a pulse never navigates")
	s.Equal(before.Clients, st.Clients)
	s.Equal(before.LastFailure, st.LastFailure)
}

func (s *FramesSuite) TestMatchStoresClientAndNavigates() {
	s.actions.HandleFrame([]byte(`{"bsID":"BS42","name":"Ada","expiration":"2030-01-01T00:00:00Z"}`))

	st := s.store.State()
	s.Equal("Ada", st.Clients["bs42"].Client.Name, "stored under the lower-cased badge key")
	s.Equal("/scan/bs42", st.Router.Path)
	s.False(st.ScanStatus.InFlight, "a terminal outcome settles the pulse")
	s.Empty(st.LastFailure.Err, "a match never touches the failure slice")
	s.Equal([]string{"ok"}, s.sound.Cues)
}

func (s *FramesSuite) TestMatchWithDebtSoundsErrCue() {
	s.actions.HandleFrame([]byte(`{"bsID":"BS42","debt":true,"expiration":"2030-01-01T00:00:00Z"}`))
	s.Equal([]string{"err"}, s.sound.Cues)
}

func (s *FramesSuite) TestMatchWithExpiredMembershipSoundsErrCue() {
	s.actions.HandleFrame([]byte(`{"bsID":"BS42","expiration":"2024-01-01T00:00:00Z"}`))
	s.Equal([]string{"err"}, s.sound.Cues)
}

func (s *FramesSuite) TestMatchAtExactExpirationInstantSoundsErrCue() {
	// The boundary instant counts as expired.
	s.actions.HandleFrame([]byte(`{"bsID":"BS42","expiration":"2024-06-01T12:00:00Z"}`))
	s.Equal([]string{"err"}, s.sound.Cues)
}

func (s *FramesSuite) TestFailureSetsFailureSliceAndNavigates() {
	s.actions.HandleFrame([]byte(`{"error":"no match"}`))

	st := s.store.State()
	s.Equal("no match", st.LastFailure.Err)
	s.Equal("/scan/error", st.Router.Path)
	s.False(st.ScanStatus.InFlight)
	s.Empty(st.Clients, "a failure never creates a client entry")
	s.Equal([]string{"err"}, s.sound.Cues)
}

func (s *FramesSuite) TestMalformedFrameIsAFailure() {
	s.actions.HandleFrame([]byte(`{broken`))

	st := s.store.State()
	s.Contains(st.LastFailure.Err, "malformed")
	s.Equal("/scan/error", st.Router.Path)
}

func (s *FramesSuite) TestCueFiresExactlyOncePerResolution() {
	s.actions.HandleFrame([]byte(`{"bsID":"BS42","expiration":"2030-01-01T00:00:00Z"}`))
	s.Len(s.sound.Cues, 1)

	// Reading state is a render; it must never replay the cue.
	_ = s.store.State()
	_ = s.store.State()
	s.Len(s.sound.Cues, 1)
}

func (s *FramesSuite) TestExactlyOneOutcomePerFrame() {
	frames := [][]byte{
		[]byte(`{"scanning": true}`),
		[]byte(`{"bsID":"BS42","expiration":"2030-01-01T00:00:00Z"}`),
		[]byte(`{"error":"no match"}`),
	}
	for _, raw := range frames {
		store := state.NewStore()
		a := New(store, nil, &sound.Recorder{}, s.clock, testutil.NopLogger())
		a.HandleFrame(raw)

		st := store.State()
		outcomes := 0
		if st.ScanStatus.InFlight {
			outcomes++
		}
		if len(st.Clients) > 0 {
			outcomes++
		}
		if st.LastFailure.Err != "" {
			outcomes++
		}
		s.Equal(1, outcomes, "frame %s must produce exactly one outcome", raw)
	}
}
