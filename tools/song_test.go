package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamjmurray/producer-pal-sub000/models"
)

func TestReadSong(t *testing.T) {
	r := newTestRegistry()
	v, err := r.Execute(context.Background(), "read-song", nil)
	require.NoError(t, err)
	song := v.(*models.SongInfo)

	assert.Equal(t, 120.0, song.Tempo)
	assert.Equal(t, "4/4", song.TimeSignature)
	assert.Equal(t, 2, song.TrackCount)
	assert.Equal(t, 3, song.SceneCount)
	assert.Equal(t, []string{"Intro", "Verse", "Chorus"}, song.SceneNames)

	require.Len(t, song.Tracks, 2)
	assert.Equal(t, "Bass", song.Tracks[0].Name)
	require.Len(t, song.Tracks[0].Slots, 3)
	assert.True(t, song.Tracks[0].Slots[0].HasClip)
	assert.Equal(t, "Bassline", song.Tracks[0].Slots[0].Name)
	assert.Equal(t, "1:0", song.Tracks[0].Slots[0].Length)
	assert.False(t, song.Tracks[0].Slots[1].HasClip)
}

func TestReadTrack(t *testing.T) {
	r := newTestRegistry()
	v, err := r.Execute(context.Background(), "read-track", map[string]any{"track": 1})
	require.NoError(t, err)
	track := v.(*models.TrackInfo)

	assert.Equal(t, 1, track.TrackIndex)
	assert.Equal(t, "Keys", track.Name)
	require.Len(t, track.Slots, 3)
	for _, slot := range track.Slots {
		assert.False(t, slot.HasClip)
	}
}

func TestReadTrack_BadIndex(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Execute(context.Background(), "read-track", map[string]any{"track": 7})
	assert.Error(t, err)
}

func TestReadScene(t *testing.T) {
	r := newTestRegistry()
	v, err := r.Execute(context.Background(), "read-scene", map[string]any{"scene": 0})
	require.NoError(t, err)
	scene := v.(*models.SceneInfo)

	assert.Equal(t, "Intro", scene.Name)
	require.Len(t, scene.Slots, 2)
	assert.True(t, scene.Slots[0].HasClip)
	assert.False(t, scene.Slots[1].HasClip)
}
