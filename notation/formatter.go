package notation

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/adamjmurray/producer-pal-sub000/models"
)

// durationTolerance absorbs float noise when deciding whether a note carries
// the default one-musical-beat duration.
const durationTolerance = 1e-9

// FormatNotation renders note events as a minimal notation string: one
// position token per distinct start time, t/v modifiers only where a note
// differs from the defaults. Events are sorted by (start, pitch) first, so
// identical input always yields an identical string.
//
// Probability and velocity deviation are dropped; parsing the result fills
// their defaults back in. Deletion markers (velocity 0) are emitted as v0
// notes with no duration token, since their duration is meaningless.
func FormatNotation(events []models.NoteEvent, sig TimeSig) (string, error) {
	if err := sig.Validate(); err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", nil
	}

	sorted := make([]models.NoteEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartBeats != sorted[j].StartBeats {
			return sorted[i].StartBeats < sorted[j].StartBeats
		}
		return sorted[i].MidiNoteNumber < sorted[j].MidiNoteNumber
	})

	defaultDuration := sig.hostBeats(1)

	var sb strings.Builder
	for i, ev := range sorted {
		if i == 0 || ev.StartBeats != sorted[i-1].StartBeats {
			pos, err := BeatsToPosition(ev.StartBeats, sig)
			if err != nil {
				return "", err
			}
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(string(pos))
		}
		if ev.Velocity < 0 || ev.Velocity > 127 {
			return "", &RangeError{What: "velocity", Value: float64(ev.Velocity), Allowed: "0..127", Index: -1}
		}
		if !ev.IsDeletion() {
			if ev.DurationBeats <= 0 {
				return "", &RangeError{What: "duration", Value: ev.DurationBeats, Allowed: "> 0 host beats", Index: -1}
			}
			if math.Abs(ev.DurationBeats-defaultDuration) > durationTolerance {
				sb.WriteString(" t")
				sb.WriteString(formatNumber(sig.musicalBeats(ev.DurationBeats)))
			}
		}
		if ev.Velocity != DefaultVelocity {
			sb.WriteString(" v")
			sb.WriteString(strconv.Itoa(ev.Velocity))
		}
		name, err := ToName(ev.MidiNoteNumber)
		if err != nil {
			return "", err
		}
		sb.WriteByte(' ')
		sb.WriteString(name)
	}

	return sb.String(), nil
}
