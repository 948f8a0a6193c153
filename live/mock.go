package live

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/adamjmurray/producer-pal-sub000/models"
)

// MockClient is an in-memory stand-in for the host. It backs the tests and
// the serve --mock mode with the same object tree shape the tools address
// on a real host.
type MockClient struct {
	mu   sync.Mutex
	song *MockSong
}

// MockSong is the root of the mock object tree.
type MockSong struct {
	Tempo                float64
	SignatureNumerator   int
	SignatureDenominator int
	SceneNames           []string
	Tracks               []*MockTrack
}

// MockTrack holds one clip slot per scene; a nil slot is empty.
type MockTrack struct {
	Name  string
	Slots []*MockClip
}

// MockClip stores notes as decoded events, not notation text. Length is in
// host beats.
type MockClip struct {
	Name    string
	Length  float64
	Looping bool
	Notes   []models.NoteEvent
}

// NewMockClient wraps a song tree in a Client.
func NewMockClient(song *MockSong) *MockClient {
	return &MockClient{song: song}
}

// DemoSong builds a small 4/4 session: two tracks, three scenes, one clip
// with content.
func DemoSong() *MockSong {
	return &MockSong{
		Tempo:                120,
		SignatureNumerator:   4,
		SignatureDenominator: 4,
		SceneNames:           []string{"Intro", "Verse", "Chorus"},
		Tracks: []*MockTrack{
			{
				Name: "Bass",
				Slots: []*MockClip{
					{
						Name:    "Bassline",
						Length:  4,
						Looping: true,
						Notes: []models.NoteEvent{
							{MidiNoteNumber: 36, StartBeats: 0, DurationBeats: 1, Velocity: 100, Probability: 1.0},
							{MidiNoteNumber: 43, StartBeats: 1, DurationBeats: 1, Velocity: 100, Probability: 1.0},
							{MidiNoteNumber: 36, StartBeats: 2, DurationBeats: 1, Velocity: 100, Probability: 1.0},
							{MidiNoteNumber: 43, StartBeats: 3, DurationBeats: 1, Velocity: 90, Probability: 1.0},
						},
					},
					nil,
					nil,
				},
			},
			{
				Name:  "Keys",
				Slots: []*MockClip{nil, nil, nil},
			},
		},
	}
}

// Get reads a property of the object at path.
func (c *MockClient) Get(_ context.Context, path, property string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	segs := strings.Fields(path)
	switch {
	case isSongPath(segs):
		switch property {
		case "tempo":
			return c.song.Tempo, nil
		case "signature_numerator":
			return c.song.SignatureNumerator, nil
		case "signature_denominator":
			return c.song.SignatureDenominator, nil
		case "track_count":
			return len(c.song.Tracks), nil
		case "scene_count":
			return len(c.song.SceneNames), nil
		}
	case isTrackPath(segs):
		track, err := c.track(segs)
		if err != nil {
			return nil, err
		}
		if property == "name" {
			return track.Name, nil
		}
	case isScenePath(segs):
		idx, err := c.sceneIndex(segs)
		if err != nil {
			return nil, err
		}
		if property == "name" {
			return c.song.SceneNames[idx], nil
		}
	case isSlotPath(segs):
		_, slot, err := c.slot(segs)
		if err != nil {
			return nil, err
		}
		if property == "has_clip" {
			return slot != nil, nil
		}
	case isClipPath(segs):
		clip, err := c.clip(segs)
		if err != nil {
			return nil, err
		}
		switch property {
		case "name":
			return clip.Name, nil
		case "length":
			return clip.Length, nil
		case "looping":
			return clip.Looping, nil
		}
	default:
		return nil, fmt.Errorf("live: unknown path %q", path)
	}
	return nil, fmt.Errorf("live: object %q has no property %q", path, property)
}

// Set writes a property of the object at path.
func (c *MockClient) Set(_ context.Context, path, property string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	segs := strings.Fields(path)
	switch {
	case isSongPath(segs):
		switch property {
		case "tempo":
			v, ok := asFloat(value)
			if !ok {
				return fmt.Errorf("live: tempo must be a number, got %T", value)
			}
			c.song.Tempo = v
			return nil
		}
	case isTrackPath(segs):
		track, err := c.track(segs)
		if err != nil {
			return err
		}
		if property == "name" {
			track.Name = fmt.Sprintf("%v", value)
			return nil
		}
	case isClipPath(segs):
		clip, err := c.clip(segs)
		if err != nil {
			return err
		}
		switch property {
		case "name":
			clip.Name = fmt.Sprintf("%v", value)
			return nil
		case "length":
			v, ok := asFloat(value)
			if !ok {
				return fmt.Errorf("live: length must be a number, got %T", value)
			}
			clip.Length = v
			return nil
		case "looping":
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("live: looping must be a bool, got %T", value)
			}
			clip.Looping = v
			return nil
		}
	default:
		return fmt.Errorf("live: unknown path %q", path)
	}
	return fmt.Errorf("live: cannot set property %q on %q", property, path)
}

// Call invokes a method on the object at path.
func (c *MockClient) Call(_ context.Context, path, method string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	segs := strings.Fields(path)
	switch {
	case isSlotPath(segs):
		track, slot, err := c.slot(segs)
		if err != nil {
			return nil, err
		}
		sceneIdx, _ := strconv.Atoi(segs[4])
		switch method {
		case "create_clip":
			if slot != nil {
				return nil, fmt.Errorf("live: slot %q already has a clip", path)
			}
			length := 4.0
			if len(args) > 0 {
				if v, ok := asFloat(args[0]); ok {
					length = v
				}
			}
			track.Slots[sceneIdx] = &MockClip{Length: length, Looping: true}
			return nil, nil
		case "delete_clip":
			if slot == nil {
				return nil, fmt.Errorf("live: no clip at %q", path)
			}
			track.Slots[sceneIdx] = nil
			return nil, nil
		}
	case isClipPath(segs):
		clip, err := c.clip(segs)
		if err != nil {
			return nil, err
		}
		switch method {
		case "get_notes_extended":
			notes := make([]models.NoteEvent, len(clip.Notes))
			copy(notes, clip.Notes)
			return notes, nil
		case "add_new_notes":
			if len(args) != 1 {
				return nil, fmt.Errorf("live: add_new_notes takes one argument")
			}
			notes, ok := args[0].([]models.NoteEvent)
			if !ok {
				return nil, fmt.Errorf("live: add_new_notes wants []models.NoteEvent, got %T", args[0])
			}
			clip.Notes = append(clip.Notes, notes...)
			return nil, nil
		case "remove_notes_extended":
			clip.Notes = nil
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("live: unknown path %q", path)
	}
	return nil, fmt.Errorf("live: object %q has no method %q", path, method)
}

// Path classification. The mock understands the subset of the host tree the
// tools address.

func isSongPath(segs []string) bool {
	return len(segs) == 1 && segs[0] == "live_set"
}

func isTrackPath(segs []string) bool {
	return len(segs) == 3 && segs[0] == "live_set" && segs[1] == "tracks"
}

func isScenePath(segs []string) bool {
	return len(segs) == 3 && segs[0] == "live_set" && segs[1] == "scenes"
}

func isSlotPath(segs []string) bool {
	return len(segs) == 5 && segs[0] == "live_set" && segs[1] == "tracks" && segs[3] == "clip_slots"
}

func isClipPath(segs []string) bool {
	return len(segs) == 6 && segs[0] == "live_set" && segs[1] == "tracks" &&
		segs[3] == "clip_slots" && segs[5] == "clip"
}

func (c *MockClient) track(segs []string) (*MockTrack, error) {
	idx, err := strconv.Atoi(segs[2])
	if err != nil || idx < 0 || idx >= len(c.song.Tracks) {
		return nil, fmt.Errorf("live: no track at index %q", segs[2])
	}
	return c.song.Tracks[idx], nil
}

func (c *MockClient) sceneIndex(segs []string) (int, error) {
	idx, err := strconv.Atoi(segs[2])
	if err != nil || idx < 0 || idx >= len(c.song.SceneNames) {
		return 0, fmt.Errorf("live: no scene at index %q", segs[2])
	}
	return idx, nil
}

func (c *MockClient) slot(segs []string) (*MockTrack, *MockClip, error) {
	track, err := c.track(segs[:3])
	if err != nil {
		return nil, nil, err
	}
	idx, err := strconv.Atoi(segs[4])
	if err != nil || idx < 0 || idx >= len(track.Slots) {
		return nil, nil, fmt.Errorf("live: no clip slot at index %q", segs[4])
	}
	return track, track.Slots[idx], nil
}

func (c *MockClient) clip(segs []string) (*MockClip, error) {
	_, slot, err := c.slot(segs[:5])
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("live: no clip at track %s scene %s", segs[2], segs[4])
	}
	return slot, nil
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
