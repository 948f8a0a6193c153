package models

// ClipInfo is the result of clip tool calls. Notes is the notation string
// for the clip's contents; Length is a bar:beat duration string.
type ClipInfo struct {
	TrackIndex    int    `json:"track_index"`
	SceneIndex    int    `json:"scene_index"`
	Name          string `json:"name"`
	TimeSignature string `json:"time_signature"`
	Length        string `json:"length"`
	Looping       bool   `json:"looping"`
	NoteCount     int    `json:"note_count"`
	Notes         string `json:"notes"`
}

// ClipSlotInfo is a single slot in a track or scene overview.
type ClipSlotInfo struct {
	TrackIndex int    `json:"track_index"`
	SceneIndex int    `json:"scene_index"`
	HasClip    bool   `json:"has_clip"`
	Name       string `json:"name,omitempty"`
	Length     string `json:"length,omitempty"`
}

// TrackInfo is the result of the read-track tool.
type TrackInfo struct {
	TrackIndex int            `json:"track_index"`
	Name       string         `json:"name"`
	Slots      []ClipSlotInfo `json:"slots"`
}

// SceneInfo is the result of the read-scene tool.
type SceneInfo struct {
	SceneIndex int            `json:"scene_index"`
	Name       string         `json:"name"`
	Slots      []ClipSlotInfo `json:"slots"`
}

// SongInfo is the result of the read-song tool.
type SongInfo struct {
	Tempo         float64     `json:"tempo"`
	TimeSignature string      `json:"time_signature"`
	TrackCount    int         `json:"track_count"`
	SceneCount    int         `json:"scene_count"`
	Tracks        []TrackInfo `json:"tracks"`
	SceneNames    []string    `json:"scene_names"`
}
