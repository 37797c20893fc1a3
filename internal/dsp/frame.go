// Package dsp decodes the SmartLink display ("dsp") frames. The format is
// reverse engineered from the 7-segment display traffic of one controller
// family; bytes whose meaning is still unknown are kept explicit rather
// than guessed.
package dsp

import (
	"encoding/hex"
	"fmt"
)

// FrameLen is the length of a display frame in bytes.
const FrameLen = 6

// RawFrame is one display frame. Byte roles:
// [0] mode/letter indicator, [1] ones digit, [2] tens digit,
// [3] hundreds digit, [4] status byte A, [5] status byte B.
type RawFrame [FrameLen]byte

// ParseFrame decodes a dsp hex string into a RawFrame. The controller sends
// either 10 or 12 hex characters; 10-character frames are zero-padded to 12
// before decoding.
func ParseFrame(s string) (RawFrame, error) {
	switch len(s) {
	case FrameLen * 2:
	case FrameLen*2 - 2:
		s += "00"
	default:
		return RawFrame{}, fmt.Errorf("dsp frame %q: want 10 or 12 hex chars, got %d", s, len(s))
	}
	var f RawFrame
	if _, err := hex.Decode(f[:], []byte(s)); err != nil {
		return RawFrame{}, fmt.Errorf("dsp frame %q: %w", s, err)
	}
	return f, nil
}

// String returns the frame as 12 lowercase hex characters.
func (f RawFrame) String() string {
	return hex.EncodeToString(f[:])
}

// SemanticFrame is the decoded meaning of one RawFrame. Exactly one concrete
// variant is produced per frame: Temperature, TimeOfDay, Eco, Blank or
// Unknown. Consumers switch over the concrete types.
type SemanticFrame interface {
	semanticFrame()
}

// Temperature is the display showing the water temperature in °F.
type Temperature struct {
	Value   int
	StatusA byte
	StatusB byte
}

// TimeOfDay is the display showing the clock, e.g. "8:45AM".
type TimeOfDay struct {
	Text    string
	StatusA byte
	StatusB byte
}

// Eco is the fixed "ECOn" economy-mode pattern.
type Eco struct {
	StatusA byte
	StatusB byte
}

// Blank is an empty display (all segments off, colon indicator allowed).
// It carries no status bytes.
type Blank struct{}

// Unknown is a frame no other variant claimed. When the frame spelled a
// recognized mode word (HI/LO/ON/OFF/ECO) Text holds it and no status bytes
// are carried; otherwise the status bytes are passed through.
type Unknown struct {
	Raw       RawFrame
	Text      string
	HasStatus bool
	StatusA   byte
	StatusB   byte
}

func (Temperature) semanticFrame() {}
func (TimeOfDay) semanticFrame()   {}
func (Eco) semanticFrame()         {}
func (Blank) semanticFrame()       {}
func (Unknown) semanticFrame()     {}
