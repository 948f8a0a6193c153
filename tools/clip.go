package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/adamjmurray/producer-pal-sub000/models"
	"github.com/adamjmurray/producer-pal-sub000/notation"
)

func slotPath(track, scene int) string {
	return fmt.Sprintf("live_set tracks %d clip_slots %d", track, scene)
}

func clipPath(track, scene int) string {
	return slotPath(track, scene) + " clip"
}

// startTolerance decides when two events occupy the same start time during
// an update merge.
const startTolerance = 1e-9

func sameSlot(a, b models.NoteEvent) bool {
	return a.MidiNoteNumber == b.MidiNoteNumber &&
		math.Abs(a.StartBeats-b.StartBeats) < startTolerance
}

func (r *Registry) readClipTool() *Tool {
	return &Tool{
		Name:        "read-clip",
		Description: "Read a clip's notes as notation, with its name and bar:beat length.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"track": map[string]any{"type": "integer", "description": "0-based track index"},
				"scene": map[string]any{"type": "integer", "description": "0-based scene index"},
			},
			"required": []string{"track", "scene"},
		},
		Handler: r.readClip,
	}
}

func (r *Registry) readClip(ctx context.Context, args map[string]any) (any, error) {
	track, err := requireInt(args, "track")
	if err != nil {
		return nil, err
	}
	scene, err := requireInt(args, "scene")
	if err != nil {
		return nil, err
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}

	hasClip, err := r.hostBool(ctx, slotPath(track, scene), "has_clip")
	if err != nil {
		return nil, err
	}
	if !hasClip {
		return nil, fmt.Errorf("no clip at track %d scene %d", track, scene)
	}

	info, err := r.clipInfo(ctx, track, scene, sig)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordNotationSize(ctx, "read-clip", info.NoteCount, len(info.Notes))
	return info, nil
}

// clipInfo reads a clip that is known to exist and encodes its contents.
func (r *Registry) clipInfo(ctx context.Context, track, scene int, sig notation.TimeSig) (*models.ClipInfo, error) {
	path := clipPath(track, scene)

	name, err := r.hostString(ctx, path, "name")
	if err != nil {
		return nil, err
	}
	length, err := r.hostFloat(ctx, path, "length")
	if err != nil {
		return nil, err
	}
	looping, err := r.hostBool(ctx, path, "looping")
	if err != nil {
		return nil, err
	}
	raw, err := r.client.Call(ctx, path, "get_notes_extended")
	if err != nil {
		return nil, err
	}
	events, err := coerceNotes(raw)
	if err != nil {
		return nil, err
	}

	text, err := notation.FormatNotation(events, sig)
	if err != nil {
		return nil, err
	}
	lengthStr, err := notation.BeatsToDuration(length, sig)
	if err != nil {
		return nil, err
	}

	return &models.ClipInfo{
		TrackIndex:    track,
		SceneIndex:    scene,
		Name:          name,
		TimeSignature: sig.String(),
		Length:        string(lengthStr),
		Looping:       looping,
		NoteCount:     len(events),
		Notes:         text,
	}, nil
}

func (r *Registry) writeClipTool() *Tool {
	return &Tool{
		Name:        "write-clip",
		Description: "Create or replace a clip from a notation string. Length defaults to the notes rounded up to whole bars.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"track":   map[string]any{"type": "integer", "description": "0-based track index"},
				"scene":   map[string]any{"type": "integer", "description": "0-based scene index"},
				"notes":   map[string]any{"type": "string", "description": "notation string, e.g. \"1|1 C3 E3 1|2 v80 G3\""},
				"name":    map[string]any{"type": "string"},
				"length":  map[string]any{"type": "string", "description": "bar:beat duration, e.g. \"2:0\""},
				"looping": map[string]any{"type": "boolean"},
			},
			"required": []string{"track", "scene", "notes"},
		},
		Handler: r.writeClip,
	}
}

func (r *Registry) writeClip(ctx context.Context, args map[string]any) (any, error) {
	track, err := requireInt(args, "track")
	if err != nil {
		return nil, err
	}
	scene, err := requireInt(args, "scene")
	if err != nil {
		return nil, err
	}
	text, err := requireString(args, "notes")
	if err != nil {
		return nil, err
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}

	// Validate the notation before touching the host.
	parsed, err := notation.ParseNotation(text, sig)
	if err != nil {
		return nil, err
	}

	// Deletion markers have nothing to delete in a fresh write.
	events := make([]models.NoteEvent, 0, len(parsed))
	for _, ev := range parsed {
		if !ev.IsDeletion() {
			events = append(events, ev)
		}
	}

	length := clipLength(events, sig)
	if s, ok := getString(args, "length", ""); ok {
		length, err = notation.DurationToBeats(notation.Duration(s), sig)
		if err != nil {
			return nil, err
		}
	}

	hasClip, err := r.hostBool(ctx, slotPath(track, scene), "has_clip")
	if err != nil {
		return nil, err
	}
	if !hasClip {
		if _, err := r.client.Call(ctx, slotPath(track, scene), "create_clip", length); err != nil {
			return nil, err
		}
	} else {
		if _, err := r.client.Call(ctx, clipPath(track, scene), "remove_notes_extended"); err != nil {
			return nil, err
		}
	}

	if err := r.storeClip(ctx, track, scene, events, length, args); err != nil {
		return nil, err
	}

	r.metrics.RecordNotationSize(ctx, "write-clip", len(events), len(text))
	r.dropSongCache()
	return r.clipInfo(ctx, track, scene, sig)
}

// storeClip pushes notes and properties to a clip that exists.
func (r *Registry) storeClip(ctx context.Context, track, scene int, events []models.NoteEvent, length float64, args map[string]any) error {
	path := clipPath(track, scene)

	if len(events) > 0 {
		if _, err := r.client.Call(ctx, path, "add_new_notes", events); err != nil {
			return err
		}
	}
	if err := r.client.Set(ctx, path, "length", length); err != nil {
		return err
	}
	if name, ok := getString(args, "name", ""); ok {
		if err := r.client.Set(ctx, path, "name", name); err != nil {
			return err
		}
	}
	if looping, ok := getBool(args, "looping", true); ok {
		if err := r.client.Set(ctx, path, "looping", looping); err != nil {
			return err
		}
	}
	return nil
}

// clipLength derives a clip length from its notes: the last note end,
// rounded up to whole bars, and at least one bar.
func clipLength(events []models.NoteEvent, sig notation.TimeSig) float64 {
	end := 0.0
	for _, ev := range events {
		if ev.IsDeletion() {
			continue
		}
		if noteEnd := ev.StartBeats + ev.DurationBeats; noteEnd > end {
			end = noteEnd
		}
	}
	barHostBeats := float64(sig.Numerator) * 4 / float64(sig.Denominator)
	bars := math.Ceil(end / barHostBeats)
	if bars < 1 {
		bars = 1
	}
	return bars * barHostBeats
}

func (r *Registry) updateClipTool() *Tool {
	return &Tool{
		Name:        "update-clip",
		Description: "Merge notation into an existing clip. v0 notes delete the note at the same pitch and position; others replace or add.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"track": map[string]any{"type": "integer", "description": "0-based track index"},
				"scene": map[string]any{"type": "integer", "description": "0-based scene index"},
				"notes": map[string]any{"type": "string", "description": "notation string; v0 marks deletions"},
				"name":  map[string]any{"type": "string"},
			},
			"required": []string{"track", "scene", "notes"},
		},
		Handler: r.updateClip,
	}
}

func (r *Registry) updateClip(ctx context.Context, args map[string]any) (any, error) {
	track, err := requireInt(args, "track")
	if err != nil {
		return nil, err
	}
	scene, err := requireInt(args, "scene")
	if err != nil {
		return nil, err
	}
	text, err := requireString(args, "notes")
	if err != nil {
		return nil, err
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}

	hasClip, err := r.hostBool(ctx, slotPath(track, scene), "has_clip")
	if err != nil {
		return nil, err
	}
	if !hasClip {
		return nil, fmt.Errorf("no clip at track %d scene %d", track, scene)
	}

	parsed, err := notation.ParseNotation(text, sig)
	if err != nil {
		return nil, err
	}

	path := clipPath(track, scene)
	raw, err := r.client.Call(ctx, path, "get_notes_extended")
	if err != nil {
		return nil, err
	}
	merged, err := coerceNotes(raw)
	if err != nil {
		return nil, err
	}

	for _, ev := range parsed {
		idx := -1
		for i, existing := range merged {
			if sameSlot(existing, ev) {
				idx = i
				break
			}
		}
		switch {
		case ev.IsDeletion():
			if idx >= 0 {
				merged = append(merged[:idx], merged[idx+1:]...)
			}
		case idx >= 0:
			merged[idx] = ev
		default:
			merged = append(merged, ev)
		}
	}

	if _, err := r.client.Call(ctx, path, "remove_notes_extended"); err != nil {
		return nil, err
	}
	if len(merged) > 0 {
		if _, err := r.client.Call(ctx, path, "add_new_notes", merged); err != nil {
			return nil, err
		}
	}
	if name, ok := getString(args, "name", ""); ok {
		if err := r.client.Set(ctx, path, "name", name); err != nil {
			return nil, err
		}
	}

	r.metrics.RecordNotationSize(ctx, "update-clip", len(merged), len(text))
	r.dropSongCache()
	return r.clipInfo(ctx, track, scene, sig)
}

func (r *Registry) duplicateClipTool() *Tool {
	return &Tool{
		Name:        "duplicate-clip",
		Description: "Copy a clip (notes, length, name, looping) to another slot, replacing whatever is there.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"track":    map[string]any{"type": "integer", "description": "0-based source track index"},
				"scene":    map[string]any{"type": "integer", "description": "0-based source scene index"},
				"to_track": map[string]any{"type": "integer", "description": "destination track, default: same track"},
				"to_scene": map[string]any{"type": "integer", "description": "destination scene"},
				"name":     map[string]any{"type": "string", "description": "destination clip name, default: source name"},
			},
			"required": []string{"track", "scene", "to_scene"},
		},
		Handler: r.duplicateClip,
	}
}

func (r *Registry) duplicateClip(ctx context.Context, args map[string]any) (any, error) {
	track, err := requireInt(args, "track")
	if err != nil {
		return nil, err
	}
	scene, err := requireInt(args, "scene")
	if err != nil {
		return nil, err
	}
	toScene, err := requireInt(args, "to_scene")
	if err != nil {
		return nil, err
	}
	toTrack, _ := getInt(args, "to_track", track)
	if toTrack == track && toScene == scene {
		return nil, fmt.Errorf("destination is the source clip")
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}

	hasClip, err := r.hostBool(ctx, slotPath(track, scene), "has_clip")
	if err != nil {
		return nil, err
	}
	if !hasClip {
		return nil, fmt.Errorf("no clip at track %d scene %d", track, scene)
	}

	srcPath := clipPath(track, scene)
	name, err := r.hostString(ctx, srcPath, "name")
	if err != nil {
		return nil, err
	}
	length, err := r.hostFloat(ctx, srcPath, "length")
	if err != nil {
		return nil, err
	}
	looping, err := r.hostBool(ctx, srcPath, "looping")
	if err != nil {
		return nil, err
	}
	raw, err := r.client.Call(ctx, srcPath, "get_notes_extended")
	if err != nil {
		return nil, err
	}
	events, err := coerceNotes(raw)
	if err != nil {
		return nil, err
	}

	destSlot := slotPath(toTrack, toScene)
	destHasClip, err := r.hostBool(ctx, destSlot, "has_clip")
	if err != nil {
		return nil, err
	}
	if destHasClip {
		if _, err := r.client.Call(ctx, destSlot, "delete_clip"); err != nil {
			return nil, err
		}
	}
	if _, err := r.client.Call(ctx, destSlot, "create_clip", length); err != nil {
		return nil, err
	}

	destPath := clipPath(toTrack, toScene)
	if len(events) > 0 {
		if _, err := r.client.Call(ctx, destPath, "add_new_notes", events); err != nil {
			return nil, err
		}
	}
	if n, ok := getString(args, "name", ""); ok {
		name = n
	}
	if err := r.client.Set(ctx, destPath, "name", name); err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, destPath, "looping", looping); err != nil {
		return nil, err
	}

	r.dropSongCache()
	return r.clipInfo(ctx, toTrack, toScene, sig)
}
