package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamjmurray/producer-pal-sub000/models"
	"github.com/adamjmurray/producer-pal-sub000/notation"
)

func TestRegistry_ToolListing(t *testing.T) {
	r := newTestRegistry()
	tools := r.Tools()

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "%s needs a description", tool.Name)
		assert.Equal(t, "object", tool.Schema["type"], "%s schema must be an object", tool.Name)
	}
	assert.Equal(t, []string{
		"read-song", "read-track", "read-scene",
		"read-clip", "write-clip", "update-clip", "duplicate-clip",
	}, names)
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Execute(context.Background(), "make-coffee", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool), "got %v", err)
}

func TestRegistry_ErrorsCarryToolName(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Execute(context.Background(), "read-clip", map[string]any{"track": 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `read-clip: missing required argument "scene"`)
}

func TestRegistry_CodecErrorsSurviveWrapping(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Execute(context.Background(), "write-clip", map[string]any{
		"track": 1, "scene": 0, "notes": "1|1 Z9",
	})
	var se *notation.SyntaxError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "Z9", se.Token)
	assert.Equal(t, 1, se.Index)
}

func TestRegistry_SongCache(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	first, err := r.Execute(ctx, "read-song", nil)
	require.NoError(t, err)
	second, err := r.Execute(ctx, "read-song", nil)
	require.NoError(t, err)
	assert.Same(t, first.(*models.SongInfo), second.(*models.SongInfo),
		"read-song must serve the cached overview")

	_, err = r.Execute(ctx, "write-clip", map[string]any{
		"track": 1, "scene": 2, "notes": "1|1 C3",
	})
	require.NoError(t, err)

	// Cache invalidation is debounced; give it a moment to fire.
	time.Sleep(250 * time.Millisecond)

	third, err := r.Execute(ctx, "read-song", nil)
	require.NoError(t, err)
	refreshed := third.(*models.SongInfo)
	assert.NotSame(t, first.(*models.SongInfo), refreshed)
	assert.True(t, refreshed.Tracks[1].Slots[2].HasClip, "refreshed overview sees the new clip")
}
