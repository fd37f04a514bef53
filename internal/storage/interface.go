package storage

import (
	"context"

	"github.com/ironhall/kiosk/internal/model"
)

// Storage defines the interface for data persistence. Client records are
// scoped to a sheet (one roster per gym); lookups work by badge id or by
// RFID tag id, both canonicalized to lower case.
type Storage interface {
	// Client operations
	SaveClient(ctx context.Context, sheetID string, c *model.Client) error
	GetClient(ctx context.Context, sheetID, bsID string) (*model.Client, error)
	GetClientByTag(ctx context.Context, sheetID, tagID string) (*model.Client, error)

	// Sheet operations
	SaveSheet(ctx context.Context, sheet *model.Sheet) error
	GetSheet(ctx context.Context, id string) (*model.Sheet, error)
	ListSheets(ctx context.Context) ([]model.Sheet, error)

	// Visit log
	AppendVisit(ctx context.Context, sheetID string, v model.Visit) error
	ListVisits(ctx context.Context, sheetID string) ([]model.Visit, error)

	// Photo uploads
	SaveUpload(ctx context.Context, u *model.Upload) error
	GetUpload(ctx context.Context, id string) (*model.Upload, error)
}
