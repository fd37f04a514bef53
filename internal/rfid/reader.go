package rfid

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"time"
)

// Cheap USB readers emulate a keyboard and pad tag values with control
// characters; anything outside the alphanumeric range is stripped.
var sanitize = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Reader yields RFID tag ids as they are presented to the hardware.
type Reader interface {
	Tags() <-chan string
}

// LineReader reads newline-delimited tag values from a byte stream, the way
// a HID-mode reader or a serial device file presents them.
type LineReader struct {
	tags   chan string
	logger *slog.Logger
}

// NewLineReader creates a line reader
func NewLineReader(logger *slog.Logger) *LineReader {
	return &LineReader{
		tags:   make(chan string),
		logger: logger,
	}
}

// Tags returns the channel of sanitized tag ids
func (r *LineReader) Tags() <-chan string {
	return r.tags
}

// Run scans src line by line until EOF or context cancellation, pushing each
// sanitized non-empty tag onto the Tags channel. The channel stays open so a
// reconnecting device can resume feeding it; consumers stop via their own
// context.
func (r *LineReader) Run(ctx context.Context, src io.Reader) error {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		tag := sanitize.ReplaceAllString(scanner.Text(), "")
		if tag == "" {
			continue
		}

		select {
		case r.tags <- tag:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		r.logger.Error("rfid read failed", "error", err)
		return err
	}
	return nil
}

// RunDevice opens the reader's device file and feeds it into lr, reopening
// after transient failures so an unplugged reader recovers without a
// process restart.
func RunDevice(ctx context.Context, path string, lr *LineReader, retryDelay time.Duration) error {
	for {
		f, err := os.Open(path)
		if err != nil {
			lr.logger.Warn("rfid device unavailable", "path", path, "error", err)
		} else {
			err = lr.Run(ctx, f)
			_ = f.Close()
			if err == nil || ctx.Err() != nil {
				return err
			}
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
