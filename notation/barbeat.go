package notation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeSig is a time signature supplied per call. The codec keeps no state
// between calls; every conversion is parameterized by the signature it was
// handed.
type TimeSig struct {
	Numerator   int
	Denominator int
}

// supportedDenominators is the conservative set of note-value denominators.
var supportedDenominators = map[int]bool{1: true, 2: true, 4: true, 8: true, 16: true, 32: true}

// Validate checks the signature before any arithmetic uses it.
func (ts TimeSig) Validate() error {
	if ts.Numerator <= 0 || !supportedDenominators[ts.Denominator] {
		return &TimeSignatureError{Numerator: ts.Numerator, Denominator: ts.Denominator}
	}
	return nil
}

func (ts TimeSig) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// musicalBeats converts host beats (quarter notes) to beats in this
// signature's denominator unit: in 6/8 one host beat is two musical beats.
func (ts TimeSig) musicalBeats(hostBeats float64) float64 {
	return hostBeats * float64(ts.Denominator) / 4
}

// hostBeats is the inverse of musicalBeats.
func (ts TimeSig) hostBeats(musicalBeats float64) float64 {
	return musicalBeats * 4 / float64(ts.Denominator)
}

// Position is a 1-indexed "bar|beat" location string, e.g. "2|1.5".
//
// Position and Duration look alike but are not interchangeable: positions
// are 1-indexed locations, durations are 0-indexed magnitudes. The distinct
// types exist so callers cannot hand one where the other is expected.
type Position string

// Duration is a 0-indexed "bar:beat" magnitude string: "1:0" is exactly one
// bar, "1:2" is one bar plus two beats.
type Duration string

// BeatsToPosition converts a host beat offset to a bar|beat position.
func BeatsToPosition(beats float64, sig TimeSig) (Position, error) {
	if err := sig.Validate(); err != nil {
		return "", err
	}
	if beats < 0 {
		return "", &RangeError{What: "position", Value: beats, Allowed: ">= 0 host beats", Index: -1}
	}
	musical := sig.musicalBeats(beats)
	bar := int(math.Floor(musical/float64(sig.Numerator))) + 1
	beat := math.Mod(musical, float64(sig.Numerator)) + 1
	return Position(strconv.Itoa(bar) + "|" + formatNumber(beat)), nil
}

// PositionToBeats converts a bar|beat position back to host beats.
func PositionToBeats(pos Position, sig TimeSig) (float64, error) {
	if err := sig.Validate(); err != nil {
		return 0, err
	}
	barStr, beatStr, ok := strings.Cut(string(pos), "|")
	if !ok {
		return 0, &SyntaxError{Token: string(pos), Index: -1, Expected: "a position in bar|beat form"}
	}
	bar, err := strconv.Atoi(barStr)
	if err != nil {
		return 0, &SyntaxError{Token: string(pos), Index: -1, Expected: "an integer bar number before the |"}
	}
	beat, err := strconv.ParseFloat(beatStr, 64)
	if err != nil {
		return 0, &SyntaxError{Token: string(pos), Index: -1, Expected: "a beat number after the |"}
	}
	if bar < 1 {
		return 0, &RangeError{What: "bar", Value: float64(bar), Allowed: ">= 1", Token: string(pos), Index: -1}
	}
	if beat < 1 {
		return 0, &RangeError{What: "beat", Value: beat, Allowed: ">= 1", Token: string(pos), Index: -1}
	}
	musical := float64(bar-1)*float64(sig.Numerator) + (beat - 1)
	return sig.hostBeats(musical), nil
}

// BeatsToDuration converts a host beat span to a bar:beat duration.
func BeatsToDuration(beats float64, sig TimeSig) (Duration, error) {
	if err := sig.Validate(); err != nil {
		return "", err
	}
	if beats <= 0 {
		return "", &RangeError{What: "duration", Value: beats, Allowed: "> 0 host beats", Index: -1}
	}
	musical := sig.musicalBeats(beats)
	bars := int(math.Floor(musical / float64(sig.Numerator)))
	beat := math.Mod(musical, float64(sig.Numerator))
	return Duration(strconv.Itoa(bars) + ":" + formatNumber(beat)), nil
}

// DurationToBeats converts a bar:beat duration back to host beats. A string
// resolving to zero or negative total beats is a range error.
func DurationToBeats(dur Duration, sig TimeSig) (float64, error) {
	if err := sig.Validate(); err != nil {
		return 0, err
	}
	barStr, beatStr, ok := strings.Cut(string(dur), ":")
	if !ok {
		return 0, &SyntaxError{Token: string(dur), Index: -1, Expected: "a duration in bar:beat form"}
	}
	bars, err := strconv.Atoi(barStr)
	if err != nil {
		return 0, &SyntaxError{Token: string(dur), Index: -1, Expected: "an integer bar count before the :"}
	}
	beat, err := strconv.ParseFloat(beatStr, 64)
	if err != nil {
		return 0, &SyntaxError{Token: string(dur), Index: -1, Expected: "a beat count after the :"}
	}
	if bars < 0 {
		return 0, &RangeError{What: "bar count", Value: float64(bars), Allowed: ">= 0", Token: string(dur), Index: -1}
	}
	if beat < 0 {
		return 0, &RangeError{What: "beat count", Value: beat, Allowed: ">= 0", Token: string(dur), Index: -1}
	}
	total := sig.hostBeats(float64(bars)*float64(sig.Numerator) + beat)
	if total <= 0 {
		return 0, &RangeError{What: "duration", Value: total, Allowed: "> 0 host beats", Token: string(dur), Index: -1}
	}
	return total, nil
}

// formatNumber renders a beat quantity with float noise rounded away and no
// trailing zeros: 2 -> "2", 2.5 -> "2.5".
func formatNumber(f float64) string {
	r := math.Round(f*1e6) / 1e6
	if r == math.Trunc(r) && math.Abs(r) < 1e15 {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
