package roster

import (
	"context"
	"errors"
	"net/mail"

	"github.com/ironhall/kiosk/internal/dependencies/clock"
	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/storage"
)

// Errors
var (
	ErrBadgeRequired = errors.New("a badge id is required")
	ErrInvalidEmail  = errors.New("the email address is not valid")
	ErrAlreadyExists = errors.New("a member with this badge id already exists")
)

// Service manages the member roster of a sheet: lookups, registration,
// updates and the visit log.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new roster service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Lookup finds a member by badge id
func (s *Service) Lookup(ctx context.Context, sheetID, bsID string) (*model.Client, error) {
	return s.storage.GetClient(ctx, sheetID, bsID)
}

// LookupByTag finds a member by RFID tag id
func (s *Service) LookupByTag(ctx context.Context, sheetID, tagID string) (*model.Client, error) {
	return s.storage.GetClientByTag(ctx, sheetID, tagID)
}

// Register creates a new member record
func (s *Service) Register(ctx context.Context, sheetID string, c *model.Client) (*model.Client, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	_, err := s.storage.GetClient(ctx, sheetID, c.BSID)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !model.IsNotFound(err) {
		return nil, err
	}

	if err := s.storage.SaveClient(ctx, sheetID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update modifies an existing member record. Fields left empty in the
// submitted record keep their stored values, so a staff member can fix a
// name without re-entering the photo or the RFID tag.
func (s *Service) Update(ctx context.Context, sheetID, bsID string, c *model.Client) (*model.Client, error) {
	existing, err := s.storage.GetClient(ctx, sheetID, bsID)
	if err != nil {
		return nil, err
	}

	merged := merge(existing, c)
	if err := validate(merged); err != nil {
		return nil, err
	}

	if err := s.storage.SaveClient(ctx, sheetID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// RecordVisit appends a check-in for a badge to the sheet's visit log
func (s *Service) RecordVisit(ctx context.Context, sheetID, bsID string) error {
	return s.storage.AppendVisit(ctx, sheetID, model.Visit{
		BSID: model.Key(bsID),
		Time: s.clock.Now(),
	})
}

// Visits returns the visit log of a sheet in check-in order
func (s *Service) Visits(ctx context.Context, sheetID string) ([]model.Visit, error) {
	return s.storage.ListVisits(ctx, sheetID)
}

func validate(c *model.Client) error {
	if c.BSID == "" {
		return ErrBadgeRequired
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

func merge(existing, update *model.Client) *model.Client {
	merged := *update
	merged.BSID = existing.BSID
	if merged.ID == "" {
		merged.ID = existing.ID
	}
	if merged.Name == "" {
		merged.Name = existing.Name
	}
	if merged.Email == "" {
		merged.Email = existing.Email
	}
	if merged.Photo == "" {
		merged.Photo = existing.Photo
	}
	if merged.Expiration.IsZero() {
		merged.Expiration = existing.Expiration
	}
	return &merged
}
