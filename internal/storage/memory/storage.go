package memory

import (
	"context"
	"sync"

	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	clients  map[clientKey]*model.Client
	tagIndex map[clientKey]string
	sheets   map[string]*model.Sheet
	sheetIDs []string
	visits   map[string][]model.Visit
	uploads  map[string]*model.Upload
}

type clientKey struct {
	sheetID string
	id      string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		clients:  make(map[clientKey]*model.Client),
		tagIndex: make(map[clientKey]string),
		sheets:   make(map[string]*model.Sheet),
		visits:   make(map[string][]model.Visit),
		uploads:  make(map[string]*model.Upload),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Client operations

func (s *Storage) SaveClient(ctx context.Context, sheetID string, c *model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.clients[clientKey{sheetID, model.Key(c.BSID)}] = &cp
	if c.ID != "" {
		s.tagIndex[clientKey{sheetID, model.Key(c.ID)}] = model.Key(c.BSID)
	}
	return nil
}

func (s *Storage) GetClient(ctx context.Context, sheetID, bsID string) (*model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientKey{sheetID, model.Key(bsID)}]
	if !ok {
		return nil, &model.NotFoundError{Resource: "user", ID: bsID}
	}
	cp := *c
	return &cp, nil
}

func (s *Storage) GetClientByTag(ctx context.Context, sheetID, tagID string) (*model.Client, error) {
	s.mu.RLock()
	bsID, ok := s.tagIndex[clientKey{sheetID, model.Key(tagID)}]
	s.mu.RUnlock()
	if !ok {
		return nil, &model.NotFoundError{Resource: "user", ID: tagID}
	}
	return s.GetClient(ctx, sheetID, bsID)
}

// Sheet operations

func (s *Storage) SaveSheet(ctx context.Context, sheet *model.Sheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[sheet.ID]; !ok {
		s.sheetIDs = append(s.sheetIDs, sheet.ID)
	}
	cp := *sheet
	s.sheets[sheet.ID] = &cp
	return nil
}

func (s *Storage) GetSheet(ctx context.Context, id string) (*model.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sheet, ok := s.sheets[id]
	if !ok {
		return nil, model.ErrSheetNotFound
	}
	cp := *sheet
	return &cp, nil
}

func (s *Storage) ListSheets(ctx context.Context) ([]model.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Sheet, 0, len(s.sheetIDs))
	for _, id := range s.sheetIDs {
		out = append(out, *s.sheets[id])
	}
	return out, nil
}

// Visit log

func (s *Storage) AppendVisit(ctx context.Context, sheetID string, v model.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[sheetID] = append(s.visits[sheetID], v)
	return nil
}

func (s *Storage) ListVisits(ctx context.Context, sheetID string) ([]model.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Visit(nil), s.visits[sheetID]...), nil
}

// Photo uploads

func (s *Storage) SaveUpload(ctx context.Context, u *model.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.uploads[u.ID] = &cp
	return nil
}

func (s *Storage) GetUpload(ctx context.Context, id string) (*model.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.uploads[id]
	if !ok {
		return nil, model.ErrUploadNotFound
	}
	cp := *u
	return &cp, nil
}
