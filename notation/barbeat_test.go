package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatsToPosition(t *testing.T) {
	tests := []struct {
		name     string
		beats    float64
		sig      TimeSig
		expected Position
	}{
		{"start of song", 0, TimeSig{4, 4}, "1|1"},
		{"second beat in 4/4", 1, TimeSig{4, 4}, "1|2"},
		{"second bar in 4/4", 4, TimeSig{4, 4}, "2|1"},
		{"fractional beat", 1.5, TimeSig{4, 4}, "1|2.5"},
		{"eighth-note beats in 6/8", 1, TimeSig{6, 8}, "1|3"},
		{"second bar in 6/8", 3, TimeSig{6, 8}, "2|1"},
		{"3/4 bar rollover", 3, TimeSig{3, 4}, "2|1"},
		{"half-note beats in 2/2", 2, TimeSig{2, 2}, "1|2"},
		{"sixteenth beats in 7/16", 0.25, TimeSig{7, 16}, "1|2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := BeatsToPosition(tt.beats, tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pos)
		})
	}
}

func TestPositionToBeats(t *testing.T) {
	tests := []struct {
		pos      Position
		sig      TimeSig
		expected float64
	}{
		{"1|1", TimeSig{4, 4}, 0},
		{"1|2", TimeSig{4, 4}, 1},
		{"2|1", TimeSig{4, 4}, 4},
		{"1|2.5", TimeSig{4, 4}, 1.5},
		{"1|3", TimeSig{6, 8}, 1},
		{"3|1", TimeSig{6, 8}, 6},
		{"2|1", TimeSig{3, 4}, 3},
	}

	for _, tt := range tests {
		beats, err := PositionToBeats(tt.pos, tt.sig)
		require.NoError(t, err, "position %q in %s", tt.pos, tt.sig)
		assert.Equal(t, tt.expected, beats, "position %q in %s", tt.pos, tt.sig)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	sigs := []TimeSig{{4, 4}, {3, 4}, {6, 8}, {7, 8}, {2, 2}, {12, 8}, {5, 16}, {9, 32}, {1, 1}}
	for _, sig := range sigs {
		for b := 0; b <= 64; b++ {
			musical := float64(b)
			host := sig.hostBeats(musical)
			pos, err := BeatsToPosition(host, sig)
			require.NoError(t, err)
			back, err := PositionToBeats(pos, sig)
			require.NoError(t, err)
			assert.Equal(t, host, back, "beat %d as %q in %s", b, pos, sig)
		}
	}
}

func TestPositionToBeats_Errors(t *testing.T) {
	syntax := []Position{"", "1", "1:2", "a|b", "1|", "|2", "1|2|3", "1.5|2"}
	for _, pos := range syntax {
		_, err := PositionToBeats(pos, TimeSig{4, 4})
		var se *SyntaxError
		assert.True(t, errors.As(err, &se), "position %q: expected SyntaxError, got %v", pos, err)
	}

	outOfRange := []Position{"0|1", "-1|1", "1|0", "1|0.5"}
	for _, pos := range outOfRange {
		_, err := PositionToBeats(pos, TimeSig{4, 4})
		var re *RangeError
		assert.True(t, errors.As(err, &re), "position %q: expected RangeError, got %v", pos, err)
	}
}

func TestBeatsToDuration(t *testing.T) {
	tests := []struct {
		beats    float64
		sig      TimeSig
		expected Duration
	}{
		{4, TimeSig{4, 4}, "1:0"},
		{5, TimeSig{4, 4}, "1:1"},
		{2.5, TimeSig{4, 4}, "0:2.5"},
		{4, TimeSig{6, 8}, "1:2"},
		{3, TimeSig{6, 8}, "1:0"},
		{6, TimeSig{3, 4}, "2:0"},
	}

	for _, tt := range tests {
		dur, err := BeatsToDuration(tt.beats, tt.sig)
		require.NoError(t, err, "%v beats in %s", tt.beats, tt.sig)
		assert.Equal(t, tt.expected, dur, "%v beats in %s", tt.beats, tt.sig)
	}
}

func TestDurationToBeats(t *testing.T) {
	tests := []struct {
		dur      Duration
		sig      TimeSig
		expected float64
	}{
		{"1:0", TimeSig{4, 4}, 4},
		{"1:1", TimeSig{4, 4}, 5},
		{"0:2.5", TimeSig{4, 4}, 2.5},
		{"1:2", TimeSig{6, 8}, 4},
		{"0:1", TimeSig{6, 8}, 0.5},
	}

	for _, tt := range tests {
		beats, err := DurationToBeats(tt.dur, tt.sig)
		require.NoError(t, err, "duration %q in %s", tt.dur, tt.sig)
		assert.Equal(t, tt.expected, beats, "duration %q in %s", tt.dur, tt.sig)
	}
}

func TestDurationToBeats_Errors(t *testing.T) {
	syntax := []Duration{"", "1", "1|2", "a:b", "1:", ":2"}
	for _, dur := range syntax {
		_, err := DurationToBeats(dur, TimeSig{4, 4})
		var se *SyntaxError
		assert.True(t, errors.As(err, &se), "duration %q: expected SyntaxError, got %v", dur, err)
	}

	outOfRange := []Duration{"0:0", "-1:2", "0:-1"}
	for _, dur := range outOfRange {
		_, err := DurationToBeats(dur, TimeSig{4, 4})
		var re *RangeError
		assert.True(t, errors.As(err, &re), "duration %q: expected RangeError, got %v", dur, err)
	}
}

func TestTimeSigValidate(t *testing.T) {
	valid := []TimeSig{{4, 4}, {3, 4}, {6, 8}, {1, 1}, {2, 2}, {7, 16}, {9, 32}}
	for _, sig := range valid {
		assert.NoError(t, sig.Validate(), "%s", sig)
	}

	invalid := []TimeSig{{0, 4}, {-3, 4}, {4, 0}, {4, 3}, {4, 5}, {4, 6}, {4, 64}, {4, -4}}
	for _, sig := range invalid {
		err := sig.Validate()
		var tse *TimeSignatureError
		assert.True(t, errors.As(err, &tse), "%s: expected TimeSignatureError, got %v", sig, err)
	}
}
