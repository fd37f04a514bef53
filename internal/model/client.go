package model

import (
	"strings"
	"time"
)

// Client is a gym member record. BSID is the badge identifier printed on
// the membership card and used for manual search; ID is the RFID tag
// identifier read by the scanner. A record is immutable once fetched and
// only changes through an explicit register or update operation.
type Client struct {
	BSID       string    `json:"bsID"`
	Debt       bool      `json:"debt"`
	Email      string    `json:"email"`
	Expiration time.Time `json:"expiration"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Photo      string    `json:"photo"`
}

// Key returns the canonical lookup key for the client: the lower-cased
// badge id. All client-cache access goes through this key.
func (c Client) Key() string {
	return Key(c.BSID)
}

// Key canonicalizes a badge id for cache lookups.
func Key(bsID string) string {
	return strings.ToLower(bsID)
}

// Expired reports whether the client's membership has lapsed at the given
// instant. The boundary instant itself counts as expired.
func (c Client) Expired(now time.Time) bool {
	return !c.Expiration.After(now)
}

// OK reports whether a scanned client should get the green light: no debt
// and an unexpired membership.
func (c Client) OK(now time.Time) bool {
	return !c.Debt && !c.Expired(now)
}

// Sheet is a workbook holding one gym's member roster. Staff select the
// active sheet once per session.
type Sheet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Visit is one check-in event recorded against a sheet.
type Visit struct {
	BSID string    `json:"bsID"`
	Time time.Time `json:"time"`
}

// Upload is a stored member photo.
type Upload struct {
	ID          string `json:"id"`
	BSID        string `json:"bsID"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Bootstrap is the server-embedded initial state consumed once at startup
// to seed the client store before the first render.
type Bootstrap struct {
	Sheets      []Sheet `json:"sheets"`
	Email       string  `json:"email"`
	SheetID     string  `json:"sheetID"`
	ClientError string  `json:"clientError"`
	Client      Client  `json:"client"`
}
