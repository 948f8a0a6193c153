package tools

import (
	"fmt"

	"github.com/adamjmurray/producer-pal-sub000/models"
)

// Argument and value coercion helpers. Tool arguments arrive as decoded
// JSON, so numbers show up as float64 and note lists as []any.

func getFloat(m map[string]any, key string, defaultValue float64) (float64, bool) {
	if v, ok := m[key]; ok {
		if f, ok := asFloat(v); ok {
			return f, true
		}
	}
	return defaultValue, false
}

func getInt(m map[string]any, key string, defaultValue int) (int, bool) {
	if v, ok := m[key]; ok {
		if n, ok := asInt(v); ok {
			return n, true
		}
	}
	return defaultValue, false
}

func getString(m map[string]any, key string, defaultValue string) (string, bool) {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str, true
		}
	}
	return defaultValue, false
}

func getBool(m map[string]any, key string, defaultValue bool) (bool, bool) {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return defaultValue, false
}

func requireInt(m map[string]any, key string) (int, error) {
	n, ok := getInt(m, key, 0)
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	return n, nil
}

func requireString(m map[string]any, key string) (string, error) {
	s, ok := getString(m, key, "")
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// coerceNotes accepts note lists both as typed events (mock host) and as
// decoded JSON (bridge host).
func coerceNotes(v any) ([]models.NoteEvent, error) {
	switch notes := v.(type) {
	case nil:
		return nil, nil
	case []models.NoteEvent:
		return notes, nil
	case []any:
		out := make([]models.NoteEvent, 0, len(notes))
		for i, item := range notes {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("note %d is not an object (%T)", i, item)
			}
			pitch, ok := getInt(m, "pitch", 0)
			if !ok {
				return nil, fmt.Errorf("note %d is missing pitch", i)
			}
			start, _ := getFloat(m, "start_time", 0)
			duration, _ := getFloat(m, "duration", 0)
			velocity, _ := getInt(m, "velocity", 100)
			probability, hasProb := getFloat(m, "probability", 1.0)
			if !hasProb {
				probability = 1.0
			}
			deviation, _ := getFloat(m, "velocity_deviation", 0)
			out = append(out, models.NoteEvent{
				MidiNoteNumber:    pitch,
				StartBeats:        start,
				DurationBeats:     duration,
				Velocity:          velocity,
				Probability:       probability,
				VelocityDeviation: deviation,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected notes value %T", v)
}
