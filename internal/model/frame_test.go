package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFramePulse(t *testing.T) {
	f := DecodeFrame([]byte(`{"scanning": true}`))
	require.IsType(t, ScanPulse{}, f)
	assert.True(t, f.(ScanPulse).Scanning)

	f = DecodeFrame([]byte(`{"scanning": false}`))
	require.IsType(t, ScanPulse{}, f)
	assert.False(t, f.(ScanPulse).Scanning)
}

func TestDecodeFrameMatch(t *testing.T) {
	raw := []byte(`{"bsID":"BS42","debt":true,"email":"x@y.z","expiration":"2024-06-01T12:00:00Z","id":"tag9","name":"Ada","photo":"f1"}`)
	f := DecodeFrame(raw)
	require.IsType(t, ScanMatch{}, f)

	c := f.(ScanMatch).Client
	assert.Equal(t, "BS42", c.BSID)
	assert.True(t, c.Debt)
	assert.Equal(t, "x@y.z", c.Email)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), c.Expiration)
	assert.Equal(t, "tag9", c.ID)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "f1", c.Photo)
}

func TestDecodeFrameFailure(t *testing.T) {
	f := DecodeFrame([]byte(`{"error":"no match"}`))
	require.IsType(t, ScanFailure{}, f)
	assert.Equal(t, "no match", f.(ScanFailure).Err)
}

func TestDecodeFramePulseWinsOverTerminalFields(t *testing.T) {
	// A pulse takes precedence over either terminal outcome.
	f := DecodeFrame([]byte(`{"scanning":false,"bsID":"BS42","error":"no match"}`))
	assert.IsType(t, ScanPulse{}, f)
}

func TestDecodeFrameMatchWinsOverError(t *testing.T) {
	f := DecodeFrame([]byte(`{"bsID":"BS42","error":"stale"}`))
	assert.IsType(t, ScanMatch{}, f)
}

func TestDecodeFrameMalformed(t *testing.T) {
	f := DecodeFrame([]byte(`{not json`))
	require.IsType(t, ScanFailure{}, f)
	assert.Contains(t, f.(ScanFailure).Err, "malformed")
}

func TestDecodeFrameEmptyObject(t *testing.T) {
	f := DecodeFrame([]byte(`{}`))
	require.IsType(t, ScanFailure{}, f)
	assert.NotEmpty(t, f.(ScanFailure).Err)
}
