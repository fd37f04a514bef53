package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ironhall/kiosk/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.UploadTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Client tests

func (s *StorageSuite) TestSaveAndGetClient() {
	client := &model.Client{
		BSID:       "BS42",
		Name:       "Ada",
		Email:      "ada@example.com",
		Expiration: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := s.storage.SaveClient(s.ctx, "sheet-1", client)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetClient(s.ctx, "sheet-1", "BS42")
	s.Require().NoError(err)
	s.Equal(client.Name, retrieved.Name)
	s.True(client.Expiration.Equal(retrieved.Expiration))
}

func (s *StorageSuite) TestGetClientCaseInsensitiveBadge() {
	client := &model.Client{BSID: "BS42", Name: "Ada"}
	_ = s.storage.SaveClient(s.ctx, "sheet-1", client)

	retrieved, err := s.storage.GetClient(s.ctx, "sheet-1", "bs42")
	s.Require().NoError(err)
	s.Equal("Ada", retrieved.Name)
}

func (s *StorageSuite) TestGetClientNotFound() {
	_, err := s.storage.GetClient(s.ctx, "sheet-1", "nonexistent")
	s.True(model.IsNotFound(err))
}

func (s *StorageSuite) TestGetClientByTag() {
	client := &model.Client{ID: "0006F4A2", BSID: "BS42", Name: "Ada"}
	_ = s.storage.SaveClient(s.ctx, "sheet-1", client)

	retrieved, err := s.storage.GetClientByTag(s.ctx, "sheet-1", "0006f4a2")
	s.Require().NoError(err)
	s.Equal("BS42", retrieved.BSID)
}

func (s *StorageSuite) TestGetClientByTagNotFound() {
	_, err := s.storage.GetClientByTag(s.ctx, "sheet-1", "nonexistent")
	s.True(model.IsNotFound(err))
}

func (s *StorageSuite) TestClientHasNoTTL() {
	client := &model.Client{BSID: "BS42", Name: "Ada"}
	_ = s.storage.SaveClient(s.ctx, "sheet-1", client)

	ttl := s.mini.TTL(clientKey("sheet-1", "BS42"))
	s.Equal(time.Duration(0), ttl, "Client records should not expire")
}

// Sheet tests

func (s *StorageSuite) TestSaveAndGetSheet() {
	sheet := &model.Sheet{ID: "sheet-1", Name: "Main Roster"}

	err := s.storage.SaveSheet(s.ctx, sheet)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSheet(s.ctx, "sheet-1")
	s.Require().NoError(err)
	s.Equal("Main Roster", retrieved.Name)
}

func (s *StorageSuite) TestGetSheetNotFound() {
	_, err := s.storage.GetSheet(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSheetNotFound)
}

func (s *StorageSuite) TestListSheetsKeepsInsertionOrder() {
	_ = s.storage.SaveSheet(s.ctx, &model.Sheet{ID: "b", Name: "Second"})
	_ = s.storage.SaveSheet(s.ctx, &model.Sheet{ID: "a", Name: "First"})
	_ = s.storage.SaveSheet(s.ctx, &model.Sheet{ID: "b", Name: "Second Renamed"})

	sheets, err := s.storage.ListSheets(s.ctx)
	s.Require().NoError(err)
	s.Len(sheets, 2)
	s.Equal("b", sheets[0].ID)
	s.Equal("Second Renamed", sheets[0].Name)
	s.Equal("a", sheets[1].ID)
}

func (s *StorageSuite) TestListSheetsEmpty() {
	sheets, err := s.storage.ListSheets(s.ctx)
	s.Require().NoError(err)
	s.Empty(sheets)
}

// Visit tests

func (s *StorageSuite) TestAppendAndListVisits() {
	v1 := model.Visit{BSID: "bs42", Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	v2 := model.Visit{BSID: "bs43", Time: time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC)}

	s.Require().NoError(s.storage.AppendVisit(s.ctx, "sheet-1", v1))
	s.Require().NoError(s.storage.AppendVisit(s.ctx, "sheet-1", v2))

	visits, err := s.storage.ListVisits(s.ctx, "sheet-1")
	s.Require().NoError(err)
	s.Require().Len(visits, 2)
	s.Equal("bs42", visits[0].BSID)
	s.Equal("bs43", visits[1].BSID)
}

// Upload tests

func (s *StorageSuite) TestSaveAndGetUpload() {
	upload := &model.Upload{
		ID:          "file-1",
		BSID:        "bs42",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8},
	}

	err := s.storage.SaveUpload(s.ctx, upload)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUpload(s.ctx, "file-1")
	s.Require().NoError(err)
	s.Equal(upload.ContentType, retrieved.ContentType)
	s.Equal(upload.Data, retrieved.Data)
}

func (s *StorageSuite) TestGetUploadNotFound() {
	_, err := s.storage.GetUpload(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUploadNotFound)
}

func (s *StorageSuite) TestUploadTTL() {
	upload := &model.Upload{ID: "file-1", ContentType: "image/jpeg"}
	_ = s.storage.SaveUpload(s.ctx, upload)

	ttl := s.mini.TTL(uploadKey(upload.ID))
	s.True(ttl > 0, "Uploads should have TTL")
}
