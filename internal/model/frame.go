package model

import (
	"encoding/json"
	"time"
)

// Frame is one decoded push-channel message. The wire format discriminates
// by field presence rather than an explicit type tag, so frames are decoded
// into this sum exactly once at the boundary and dispatched by tag from
// then on. Priority order: a "scanning" pulse wins over either terminal
// outcome, and a terminal outcome is either a match or a failure, never
// both.
type Frame interface {
	isFrame()
}

// ScanPulse signals that a scan is in progress (or has settled).
type ScanPulse struct {
	Scanning bool
}

// ScanMatch carries the client identified by a scan.
type ScanMatch struct {
	Client Client
}

// ScanFailure carries a scan that resolved to no client.
type ScanFailure struct {
	Err string
}

func (ScanPulse) isFrame()   {}
func (ScanMatch) isFrame()   {}
func (ScanFailure) isFrame() {}

type wireFrame struct {
	Scanning   *bool      `json:"scanning"`
	BSID       *string    `json:"bsID"`
	Debt       bool       `json:"debt"`
	Email      string     `json:"email"`
	Expiration *time.Time `json:"expiration"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Photo      string     `json:"photo"`
	Error      *string    `json:"error"`
}

// DecodeFrame parses one inbound push message. A malformed message is
// returned as a ScanFailure rather than an error so that every frame
// reaches a terminal, displayable state.
func DecodeFrame(raw []byte) Frame {
	var w wireFrame
	if err := json.Unmarshal(raw, &w); err != nil {
		return ScanFailure{Err: "malformed scan message: " + err.Error()}
	}
	if w.Scanning != nil {
		return ScanPulse{Scanning: *w.Scanning}
	}
	if w.BSID != nil {
		c := Client{
			BSID:  *w.BSID,
			Debt:  w.Debt,
			Email: w.Email,
			ID:    w.ID,
			Name:  w.Name,
			Photo: w.Photo,
		}
		if w.Expiration != nil {
			c.Expiration = *w.Expiration
		}
		return ScanMatch{Client: c}
	}
	if w.Error != nil {
		return ScanFailure{Err: *w.Error}
	}
	return ScanFailure{Err: "scan message carried no recognizable fields"}
}
