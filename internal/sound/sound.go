// Package sound plays the two audible cues staff rely on when a badge is
// scanned: a short "ok" chirp for a clean check-in and an "err" buzz for
// debt, expiry, or a failed lookup. Cues fire synchronously inside the
// scan-outcome action creators so each lookup resolution sounds exactly
// once, never again on a re-render.
package sound

import (
	"log/slog"
	"os/exec"
)

// Player plays the kiosk's audio cues.
type Player interface {
	OK()
	Err()
}

// CommandPlayer shells out to an external audio player (paplay, aplay,
// afplay) with a cue file per outcome. Playback runs detached; a cue that
// fails to sound is logged and otherwise ignored.
type CommandPlayer struct {
	Binary  string
	OKFile  string
	ErrFile string
	logger  *slog.Logger
}

// NewCommandPlayer creates a player invoking the given binary.
func NewCommandPlayer(binary, okFile, errFile string, logger *slog.Logger) *CommandPlayer {
	return &CommandPlayer{
		Binary:  binary,
		OKFile:  okFile,
		ErrFile: errFile,
		logger:  logger.With(slog.String("component", "sound")),
	}
}

func (p *CommandPlayer) play(file string) {
	cmd := exec.Command(p.Binary, file)
	if err := cmd.Start(); err != nil {
		p.logger.Warn("failed to play cue", slog.String("file", file), slog.String("error", err.Error()))
		return
	}
	go func() { _ = cmd.Wait() }()
}

// OK plays the success cue.
func (p *CommandPlayer) OK() { p.play(p.OKFile) }

// Err plays the failure cue.
func (p *CommandPlayer) Err() { p.play(p.ErrFile) }

// Nop is a Player that stays silent. Used when no audio device is
// configured.
type Nop struct{}

func (Nop) OK()  {}
func (Nop) Err() {}

// Recorder is a Player for tests that remembers which cues fired, in
// order.
type Recorder struct {
	Cues []string
}

func (r *Recorder) OK() { r.Cues = append(r.Cues, "ok") }

func (r *Recorder) Err() { r.Cues = append(r.Cues, "err") }
