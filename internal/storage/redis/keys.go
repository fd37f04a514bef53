package redis

import (
	"fmt"

	"github.com/ironhall/kiosk/internal/model"
)

// Key prefix for all kiosk data
const keyPrefix = "kiosk"

// Key generation functions for each entity type

// clientKey returns the Redis key for a client record within a sheet
func clientKey(sheetID, bsID string) string {
	return fmt.Sprintf("%s:client:%s:%s", keyPrefix, sheetID, model.Key(bsID))
}

// tagIndexKey returns the Redis key for the rfid_tag -> bsID index
func tagIndexKey(sheetID, tagID string) string {
	return fmt.Sprintf("%s:idx:tag:%s:%s", keyPrefix, sheetID, model.Key(tagID))
}

// sheetKey returns the Redis key for a Sheet
func sheetKey(id string) string {
	return fmt.Sprintf("%s:sheet:%s", keyPrefix, id)
}

// sheetIndexKey returns the Redis key for the LIST of known sheet ids
func sheetIndexKey() string {
	return fmt.Sprintf("%s:idx:sheets", keyPrefix)
}

// visitsKey returns the Redis key for the visit log LIST of a sheet
func visitsKey(sheetID string) string {
	return fmt.Sprintf("%s:visits:%s", keyPrefix, sheetID)
}

// uploadKey returns the Redis key for a photo upload
func uploadKey(id string) string {
	return fmt.Sprintf("%s:upload:%s", keyPrefix, id)
}
