// Package notation implements the reversible codec between the compact text
// notation for clip contents and the note-event records the host works with,
// along with the bar|beat position and duration codecs it is built on.
//
// A notation string is a stream of whitespace-separated tokens. A bar|beat
// position token opens a group of simultaneous notes; t and v tokens modify
// only the single note name that follows them:
//
//	1|1 t2 C3 E3 G3 1|3.5 v80 D3
//
// Probability and velocity deviation are not representable in notation:
// the formatter drops them and the parser fills defaults. That is a
// documented contract, not an oversight - downstream update logic relies on
// the notation string being a partial view of note state.
package notation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/adamjmurray/producer-pal-sub000/models"
)

// Defaults applied to notes without modifiers. The default duration is one
// musical beat, converted to host beats per the active signature.
const (
	DefaultVelocity    = 100
	DefaultProbability = 1.0
)

// ParseNotation interprets a notation string as an ordered list of note
// events. Empty or whitespace-only input yields an empty list. Parsing is
// all-or-nothing: the first bad token aborts with an error naming the token
// and its 0-based index.
func ParseNotation(text string, sig TimeSig) ([]models.NoteEvent, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	tokens := strings.Fields(text)
	events := make([]models.NoteEvent, 0, len(tokens))

	haveStart := false
	start := 0.0
	defaultDuration := sig.hostBeats(1)

	// One-shot modifiers for the next note name. pendingIndex remembers the
	// oldest unconsumed modifier token so dangling modifiers are reported
	// where they appeared.
	pendingDuration := 0.0
	pendingVelocity := 0
	haveDuration := false
	haveVelocity := false
	pendingIndex := -1

	for i, tok := range tokens {
		switch {
		case strings.Contains(tok, "|"):
			if haveDuration || haveVelocity {
				return nil, &SyntaxError{Token: tokens[pendingIndex], Index: pendingIndex,
					Expected: "a note name before the next position"}
			}
			beats, err := PositionToBeats(Position(tok), sig)
			if err != nil {
				return nil, withToken(err, tok, i)
			}
			start = beats
			haveStart = true

		case tok[0] == 't':
			d, err := strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				return nil, &SyntaxError{Token: tok, Index: i, Expected: "a duration like t0.5"}
			}
			if d <= 0 {
				return nil, &RangeError{What: "duration", Value: d, Allowed: "> 0 beats", Token: tok, Index: i}
			}
			pendingDuration = sig.hostBeats(d)
			haveDuration = true
			if pendingIndex < 0 {
				pendingIndex = i
			}

		case tok[0] == 'v':
			v, err := strconv.Atoi(tok[1:])
			if err != nil {
				return nil, &SyntaxError{Token: tok, Index: i, Expected: "a velocity like v100"}
			}
			if v < 0 || v > 127 {
				return nil, &RangeError{What: "velocity", Value: float64(v), Allowed: "0..127", Token: tok, Index: i}
			}
			pendingVelocity = v
			haveVelocity = true
			if pendingIndex < 0 {
				pendingIndex = i
			}

		default:
			if !haveStart {
				return nil, &SyntaxError{Token: tok, Index: i,
					Expected: "a bar|beat position before the first note"}
			}
			pitch, err := FromName(tok)
			if err != nil {
				return nil, withToken(err, tok, i)
			}
			ev := models.NoteEvent{
				MidiNoteNumber: pitch,
				StartBeats:     start,
				DurationBeats:  defaultDuration,
				Velocity:       DefaultVelocity,
				Probability:    DefaultProbability,
			}
			if haveDuration {
				ev.DurationBeats = pendingDuration
			}
			if haveVelocity {
				ev.Velocity = pendingVelocity
			}
			haveDuration = false
			haveVelocity = false
			pendingIndex = -1
			events = append(events, ev)
		}
	}

	if haveDuration || haveVelocity {
		return nil, &SyntaxError{Token: tokens[pendingIndex], Index: pendingIndex,
			Expected: "a note name after the modifier"}
	}

	return events, nil
}

// withToken stamps the token text and index onto a codec error produced by a
// delegate that did not know its position in the stream.
func withToken(err error, tok string, index int) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Index < 0 {
		se.Token = tok
		se.Index = index
		return se
	}
	var re *RangeError
	if errors.As(err, &re) && re.Index < 0 {
		re.Token = tok
		re.Index = index
		return re
	}
	return err
}
