package models

// NoteEvent is a single MIDI note in a clip. Times are in host beats
// (quarter notes) relative to the clip start, regardless of the active
// time signature.
type NoteEvent struct {
	MidiNoteNumber    int     `json:"pitch"`
	StartBeats        float64 `json:"start_time"`
	DurationBeats     float64 `json:"duration"`
	Velocity          int     `json:"velocity"`
	Probability       float64 `json:"probability"`
	VelocityDeviation float64 `json:"velocity_deviation"`
}

// IsDeletion reports whether the event is a deletion marker. A velocity-0
// note carries no musical meaning; update logic uses it to remove the note
// at the same pitch and start time. Its duration may be any value.
func (n NoteEvent) IsDeletion() bool {
	return n.Velocity == 0
}
