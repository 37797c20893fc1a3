package dsp

import (
	"fmt"
	"strings"
)

// Bit 7 of a display byte is not part of the segment pattern; it drives the
// colon (digit positions) or the AM indicator (status byte A).
const segMask = 0x7f

// fahrenheitCode is the low-7-bit pattern of the °F indicator in byte 0 of a
// temperature frame (same segments as the letter F).
const fahrenheitCode = 0x71

// digitCodes maps a byte's low 7 bits to a decimal digit. These are the
// standard 7-segment patterns; the controller also blanks a digit position
// to 0x00, which reads as zero. Anything absent decodes to no value, never
// a guessed digit.
var digitCodes = map[byte]int{
	0x00: 0,
	0x3f: 0,
	0x06: 1,
	0x5b: 2,
	0x4f: 3,
	0x66: 4,
	0x6d: 5,
	0x7d: 6,
	0x07: 7,
	0x7f: 8,
	0x6f: 9,
}

// letterCodes maps a byte's low 7 bits to the letter shape the segments
// spell. Only shapes the controller is known to use are listed.
var letterCodes = map[byte]rune{
	0x79: 'E',
	0x39: 'C',
	0x5c: 'o',
	0x54: 'n',
	0x71: 'F',
	0x76: 'H',
	0x38: 'L',
	0x3e: 'U',
	0x73: 'P',
	0x3f: 'O',
	0x06: 'I',
}

// modeWords are display texts that would otherwise misread as digits
// (e.g. "LO" as 0). They are detected only to suppress that misread; their
// semantics stay uninterpreted.
var modeWords = map[string]bool{
	"HI":  true,
	"LO":  true,
	"ON":  true,
	"OFF": true,
	"ECO": true,
}

var (
	blankFrame      = RawFrame{}
	blankColonFrame = RawFrame{0x00, 0x00, 0x00, 0x00, 0x00, 0x10}
	ecoPrefix       = [4]byte{0x54, 0x5c, 0x39, 0x79} // "nOCE" in byte order, "ECOn" on the display
)

// DecodeDigit returns the decimal digit a display byte's low 7 bits encode,
// or ok=false if the pattern is not a digit.
func DecodeDigit(b byte) (int, bool) {
	d, ok := digitCodes[b&segMask]
	return d, ok
}

// decodeLetter returns the letter a display byte's low 7 bits encode.
func decodeLetter(b byte) (rune, bool) {
	r, ok := letterCodes[b&segMask]
	return r, ok
}

// Classify decodes one frame into its semantic variant. It is total: every
// frame maps to exactly one variant and unrecognized frames come back as
// Unknown, never as an error. Checks run in fixed priority order because the
// interpretations overlap (a blank display would decode as time 0:00, "LO"
// as a digit pair, and so on).
func Classify(f RawFrame) SemanticFrame {
	if f == blankFrame || f == blankColonFrame {
		return Blank{}
	}

	if [4]byte(f[:4]) == ecoPrefix {
		return Eco{StatusA: f[4], StatusB: f[5]}
	}

	if word, ok := modeWord(f); ok {
		return Unknown{Raw: f, Text: word}
	}

	if f[0]&segMask == fahrenheitCode {
		if t, ok := decodeTemperature(f); ok {
			return t
		}
	}

	if t, ok := decodeTime(f); ok {
		return t
	}

	return Unknown{Raw: f, HasStatus: true, StatusA: f[4], StatusB: f[5]}
}

// modeWord reads bytes 3..0 through the letter table (the display stores the
// rightmost character in byte 0). At least two letters must decode and the
// result must be one of the known mode words.
func modeWord(f RawFrame) (string, bool) {
	var b strings.Builder
	for i := 3; i >= 0; i-- {
		if r, ok := decodeLetter(f[i]); ok {
			b.WriteRune(r)
		}
	}
	if b.Len() < 2 {
		return "", false
	}
	word := strings.ToUpper(b.String())
	return word, modeWords[word]
}

// decodeTemperature reads byte 3/2/1 as hundreds/tens/ones. The controller
// only ever shows 45–106°F, so anything outside that is rejected and falls
// through to the time interpretation.
func decodeTemperature(f RawFrame) (Temperature, bool) {
	hundreds, okH := DecodeDigit(f[3])
	tens, okT := DecodeDigit(f[2])
	ones, okO := DecodeDigit(f[1])

	if okH && hundreds == 1 && okT && okO {
		if v := 100 + tens*10 + ones; v >= 100 && v <= 106 {
			return Temperature{Value: v, StatusA: f[4], StatusB: f[5]}, true
		}
	}
	if okT && okO {
		if v := tens*10 + ones; v >= 45 && v <= 99 {
			return Temperature{Value: v, StatusA: f[4], StatusB: f[5]}, true
		}
	}
	return Temperature{}, false
}

// decodeTime reads byte 0/1 as minutes ones/tens and byte 2/3 as hours
// ones/tens. The hours tens position is blank before 10:00, so it is
// optional and reads as zero when missing.
func decodeTime(f RawFrame) (TimeOfDay, bool) {
	minOnes, ok1 := DecodeDigit(f[0])
	minTens, ok2 := DecodeDigit(f[1])
	hrOnes, ok3 := DecodeDigit(f[2])
	if !ok1 || !ok2 || !ok3 {
		return TimeOfDay{}, false
	}

	hours := hrOnes
	if hrTens, ok := DecodeDigit(f[3]); ok && hrTens > 0 {
		hours += hrTens * 10
	}
	minutes := minTens*10 + minOnes

	text := fmt.Sprintf("%d:%02d", hours, minutes)
	if f[4]&amBit != 0 {
		text += "AM"
	}
	return TimeOfDay{Text: text, StatusA: f[4], StatusB: f[5]}, true
}
