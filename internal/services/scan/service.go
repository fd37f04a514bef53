package scan

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ironhall/kiosk/internal/metrics"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/rfid"
	"github.com/ironhall/kiosk/internal/services/roster"
)

// Broadcaster pushes frames to connected kiosk clients, filtered by topic
type Broadcaster interface {
	Send(data []byte, topic string)
}

// Config holds configuration for the scan service
type Config struct {
	// CaptureTimeout bounds how long a staff-initiated capture waits for
	// a tag to be presented
	CaptureTimeout time.Duration
}

// DefaultConfig returns default scan configuration
func DefaultConfig() Config {
	return Config{
		CaptureTimeout: 5 * time.Second,
	}
}

// Service routes RFID tags. A tag normally resolves to a member lookup whose
// outcome is broadcast to every kiosk with an active sheet; while a staff
// capture session is open, the next tag is handed to the requester instead,
// so a new member's tag can be read without triggering a check-in.
type Service struct {
	roster *roster.Service
	hub    Broadcaster
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	capture chan string

	sheetsMu sync.RWMutex
	sheets   map[string]string
}

// New creates a new scan service
func New(roster *roster.Service, hub Broadcaster, logger *slog.Logger, cfg Config) *Service {
	if cfg.CaptureTimeout == 0 {
		cfg.CaptureTimeout = DefaultConfig().CaptureTimeout
	}
	return &Service{
		roster: roster,
		hub:    hub,
		logger: logger.With(slog.String("component", "scan")),
		cfg:    cfg,
		sheets: make(map[string]string),
	}
}

// SetSheet records the active sheet for a kiosk, keyed by the staff email
// that also serves as its push topic
func (s *Service) SetSheet(email, sheetID string) {
	s.sheetsMu.Lock()
	s.sheets[email] = sheetID
	s.sheetsMu.Unlock()
}

// SheetFor returns the active sheet for a kiosk
func (s *Service) SheetFor(email string) (string, bool) {
	s.sheetsMu.RLock()
	defer s.sheetsMu.RUnlock()
	sheetID, ok := s.sheets[email]
	return sheetID, ok
}

// Watch consumes tags from the reader until the context is cancelled or the
// reader's input ends
func (s *Service) Watch(ctx context.Context, reader rfid.Reader) {
	for {
		select {
		case <-ctx.Done():
			return
		case tag, ok := <-reader.Tags():
			if !ok {
				s.logger.Info("reached the end of rfid input")
				return
			}
			s.dispatch(ctx, tag)
		}
	}
}

// dispatch hands the tag to an open capture session, or resolves it as a
// check-in scan
func (s *Service) dispatch(ctx context.Context, tag string) {
	s.mu.Lock()
	ch := s.capture
	// A captured tag belongs to the requester alone
	s.capture = nil
	s.mu.Unlock()

	if ch != nil {
		ch <- tag
		return
	}
	s.HandleTag(ctx, tag)
}

// HandleTag resolves one tag against every kiosk's active sheet and
// broadcasts the outcome frames
func (s *Service) HandleTag(ctx context.Context, tag string) {
	s.sheetsMu.RLock()
	targets := make(map[string]string, len(s.sheets))
	for email, sheetID := range s.sheets {
		targets[email] = sheetID
	}
	s.sheetsMu.RUnlock()

	for email, sheetID := range targets {
		s.hub.Send([]byte(`{"scanning":true}`), email)

		c, err := s.roster.LookupByTag(ctx, sheetID, tag)
		if err != nil {
			if model.IsNotFound(err) {
				metrics.ScansTotal.WithLabelValues("no_match").Inc()
			} else {
				metrics.ScansTotal.WithLabelValues("error").Inc()
			}
			s.logger.Warn("scan lookup failed",
				slog.String("tag", tag),
				slog.String("error", err.Error()))
			s.hub.Send(errorFrame(err), email)
			continue
		}

		frame, err := json.Marshal(c)
		if err != nil {
			metrics.ScansTotal.WithLabelValues("error").Inc()
			s.logger.Error("failed to marshal member frame", slog.String("error", err.Error()))
			s.hub.Send(errorFrame(err), email)
			continue
		}

		if err := s.roster.RecordVisit(ctx, sheetID, c.BSID); err != nil {
			// A missed visit entry must not block the check-in itself
			s.logger.Error("failed to record visit",
				slog.String("bs_id", c.BSID),
				slog.String("error", err.Error()))
		}

		s.hub.Send(frame, email)
		metrics.ScansTotal.WithLabelValues("match").Inc()
	}
}

// ScanOnce steals exactly one tag from the reader for a staff capture
// session. At most one session can be open at a time.
func (s *Service) ScanOnce(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.capture != nil {
		s.mu.Unlock()
		return "", model.ErrScanBusy
	}
	ch := make(chan string, 1)
	s.capture = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		// dispatch may have consumed the session and a new one opened
		if s.capture == ch {
			s.capture = nil
		}
		s.mu.Unlock()
	}()

	metrics.ManualScansTotal.Inc()

	select {
	case <-time.After(s.cfg.CaptureTimeout):
		return "", model.ErrScanTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	case tag := <-ch:
		return tag, nil
	}
}

func errorFrame(err error) []byte {
	data := struct {
		Error string `json:"error"`
	}{err.Error()}
	j, err := json.Marshal(data)
	if err != nil {
		return []byte(`{"error": "error"}`)
	}
	return j
}
