package notation

import (
	"strconv"
	"strings"
)

// pitchNames spells the black keys with flats so every pitch has exactly one
// canonical name. Sharps are accepted on input but never emitted.
var pitchNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// noteOffsets maps a note letter to its semitone offset from C.
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ToName converts a MIDI pitch (0..127) to its display name. The host shows
// octaves one below the MIDI standard, so pitch 60 is "C3" and pitch 0 is
// "C-2".
func ToName(pitch int) (string, error) {
	if pitch < 0 || pitch > 127 {
		return "", &RangeError{What: "pitch", Value: float64(pitch), Allowed: "0..127", Index: -1}
	}
	octave := pitch/12 - 2
	return pitchNames[pitch%12] + strconv.Itoa(octave), nil
}

// FromName resolves a note name like "C3", "Db1", or "F#-1" to a MIDI pitch.
func FromName(name string) (int, error) {
	if name == "" {
		return 0, &SyntaxError{Token: name, Index: -1, Expected: "a note name like C3"}
	}
	offset, ok := noteOffsets[name[0]]
	if !ok {
		return 0, &SyntaxError{Token: name, Index: -1, Expected: "a note letter A-G"}
	}
	rest := name[1:]
	if strings.HasPrefix(rest, "b") {
		offset--
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "#") {
		offset++
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &SyntaxError{Token: name, Index: -1, Expected: "an octave number after the note letter"}
	}
	pitch := (octave+2)*12 + offset
	if pitch < 0 || pitch > 127 {
		return 0, &RangeError{What: "pitch", Value: float64(pitch), Allowed: "0..127", Token: name, Index: -1}
	}
	return pitch, nil
}
