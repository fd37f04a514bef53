package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironhall/kiosk/internal/model"
	"github.com/ironhall/kiosk/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Client operations

func (s *Storage) SaveClient(ctx context.Context, sheetID string, c *model.Client) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + tag index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, clientKey(sheetID, c.BSID), data, 0) // No TTL
	if c.ID != "" {
		pipe.Set(ctx, tagIndexKey(sheetID, c.ID), model.Key(c.BSID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetClient(ctx context.Context, sheetID, bsID string) (*model.Client, error) {
	data, err := s.client.Get(ctx, clientKey(sheetID, bsID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &model.NotFoundError{Resource: "user", ID: bsID}
		}
		return nil, err
	}

	var c model.Client
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) GetClientByTag(ctx context.Context, sheetID, tagID string) (*model.Client, error) {
	// Look up badge id from the tag index
	bsID, err := s.client.Get(ctx, tagIndexKey(sheetID, tagID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &model.NotFoundError{Resource: "user", ID: tagID}
		}
		return nil, err
	}

	return s.GetClient(ctx, sheetID, bsID)
}

// Sheet operations

func (s *Storage) SaveSheet(ctx context.Context, sheet *model.Sheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return err
	}

	exists, err := s.client.Exists(ctx, sheetKey(sheet.ID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sheetKey(sheet.ID), data, 0)
	if exists == 0 {
		// Keep listing order stable at first-seen position
		pipe.RPush(ctx, sheetIndexKey(), sheet.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSheet(ctx context.Context, id string) (*model.Sheet, error) {
	data, err := s.client.Get(ctx, sheetKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSheetNotFound
		}
		return nil, err
	}

	var sheet model.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (s *Storage) ListSheets(ctx context.Context) ([]model.Sheet, error) {
	ids, err := s.client.LRange(ctx, sheetIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []model.Sheet{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sheetKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	sheets := make([]model.Sheet, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var sheet model.Sheet
		if err := json.Unmarshal([]byte(val.(string)), &sheet); err != nil {
			continue // Skip invalid data
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

// Visit log

func (s *Storage) AppendVisit(ctx context.Context, sheetID string, v model.Visit) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, visitsKey(sheetID), data).Err()
}

func (s *Storage) ListVisits(ctx context.Context, sheetID string) ([]model.Visit, error) {
	entries, err := s.client.LRange(ctx, visitsKey(sheetID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	visits := make([]model.Visit, 0, len(entries))
	for _, entry := range entries {
		var v model.Visit
		if err := json.Unmarshal([]byte(entry), &v); err != nil {
			continue // Skip invalid data
		}
		visits = append(visits, v)
	}

	return visits, nil
}

// Photo uploads

func (s *Storage) SaveUpload(ctx context.Context, u *model.Upload) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, uploadKey(u.ID), data, s.cfg.UploadTTL).Err()
}

func (s *Storage) GetUpload(ctx context.Context, id string) (*model.Upload, error) {
	data, err := s.client.Get(ctx, uploadKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUploadNotFound
		}
		return nil, err
	}

	var u model.Upload
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
