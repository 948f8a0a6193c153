package tools

import (
	"context"
	"fmt"

	"github.com/adamjmurray/producer-pal-sub000/models"
	"github.com/adamjmurray/producer-pal-sub000/notation"
)

func (r *Registry) readSongTool() *Tool {
	return &Tool{
		Name:        "read-song",
		Description: "Read the song overview: tempo, time signature, tracks, scenes, and which slots hold clips.",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.readSong,
	}
}

func (r *Registry) readSong(ctx context.Context, _ map[string]any) (any, error) {
	r.songMu.Lock()
	if r.songCache != nil {
		cached := r.songCache
		r.songMu.Unlock()
		return cached, nil
	}
	r.songMu.Unlock()

	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}
	tempo, err := r.hostFloat(ctx, "live_set", "tempo")
	if err != nil {
		return nil, err
	}
	trackCount, err := r.hostInt(ctx, "live_set", "track_count")
	if err != nil {
		return nil, err
	}
	sceneCount, err := r.hostInt(ctx, "live_set", "scene_count")
	if err != nil {
		return nil, err
	}

	info := &models.SongInfo{
		Tempo:         tempo,
		TimeSignature: sig.String(),
		TrackCount:    trackCount,
		SceneCount:    sceneCount,
	}
	for t := 0; t < trackCount; t++ {
		track, err := r.trackInfo(ctx, t, sceneCount, sig)
		if err != nil {
			return nil, err
		}
		info.Tracks = append(info.Tracks, *track)
	}
	for s := 0; s < sceneCount; s++ {
		name, err := r.hostString(ctx, fmt.Sprintf("live_set scenes %d", s), "name")
		if err != nil {
			return nil, err
		}
		info.SceneNames = append(info.SceneNames, name)
	}

	r.songMu.Lock()
	r.songCache = info
	r.songMu.Unlock()
	return info, nil
}

func (r *Registry) readTrackTool() *Tool {
	return &Tool{
		Name:        "read-track",
		Description: "Read one track: name and a clip overview per scene.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"track": map[string]any{"type": "integer", "description": "0-based track index"},
			},
			"required": []string{"track"},
		},
		Handler: r.readTrack,
	}
}

func (r *Registry) readTrack(ctx context.Context, args map[string]any) (any, error) {
	track, err := requireInt(args, "track")
	if err != nil {
		return nil, err
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}
	sceneCount, err := r.hostInt(ctx, "live_set", "scene_count")
	if err != nil {
		return nil, err
	}
	return r.trackInfo(ctx, track, sceneCount, sig)
}

func (r *Registry) trackInfo(ctx context.Context, track, sceneCount int, sig notation.TimeSig) (*models.TrackInfo, error) {
	name, err := r.hostString(ctx, fmt.Sprintf("live_set tracks %d", track), "name")
	if err != nil {
		return nil, err
	}
	info := &models.TrackInfo{TrackIndex: track, Name: name}
	for s := 0; s < sceneCount; s++ {
		slot, err := r.slotInfo(ctx, track, s, sig)
		if err != nil {
			return nil, err
		}
		info.Slots = append(info.Slots, *slot)
	}
	return info, nil
}

func (r *Registry) readSceneTool() *Tool {
	return &Tool{
		Name:        "read-scene",
		Description: "Read one scene: name and a clip overview per track.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scene": map[string]any{"type": "integer", "description": "0-based scene index"},
			},
			"required": []string{"scene"},
		},
		Handler: r.readScene,
	}
}

func (r *Registry) readScene(ctx context.Context, args map[string]any) (any, error) {
	scene, err := requireInt(args, "scene")
	if err != nil {
		return nil, err
	}
	sig, err := r.timeSig(ctx)
	if err != nil {
		return nil, err
	}
	name, err := r.hostString(ctx, fmt.Sprintf("live_set scenes %d", scene), "name")
	if err != nil {
		return nil, err
	}
	trackCount, err := r.hostInt(ctx, "live_set", "track_count")
	if err != nil {
		return nil, err
	}

	info := &models.SceneInfo{SceneIndex: scene, Name: name}
	for t := 0; t < trackCount; t++ {
		slot, err := r.slotInfo(ctx, t, scene, sig)
		if err != nil {
			return nil, err
		}
		info.Slots = append(info.Slots, *slot)
	}
	return info, nil
}

func (r *Registry) slotInfo(ctx context.Context, track, scene int, sig notation.TimeSig) (*models.ClipSlotInfo, error) {
	slot := &models.ClipSlotInfo{TrackIndex: track, SceneIndex: scene}

	hasClip, err := r.hostBool(ctx, slotPath(track, scene), "has_clip")
	if err != nil {
		return nil, err
	}
	slot.HasClip = hasClip
	if !hasClip {
		return slot, nil
	}

	path := clipPath(track, scene)
	if slot.Name, err = r.hostString(ctx, path, "name"); err != nil {
		return nil, err
	}
	length, err := r.hostFloat(ctx, path, "length")
	if err != nil {
		return nil, err
	}
	dur, err := notation.BeatsToDuration(length, sig)
	if err != nil {
		return nil, err
	}
	slot.Length = string(dur)
	return slot, nil
}
