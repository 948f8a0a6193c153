// Package tools implements the AI-facing tool layer: clip read / write /
// update / duplicate plus song, track, and scene readers, dispatched by
// name. Tools are described by JSON schemas so the serving layer can expose
// them to a model.
//
// Every tool that touches notation reads the song's time signature from the
// host per call and hands it to the codec explicitly; the codec itself never
// sees host state.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"

	"github.com/adamjmurray/producer-pal-sub000/live"
	"github.com/adamjmurray/producer-pal-sub000/metrics"
	"github.com/adamjmurray/producer-pal-sub000/models"
	"github.com/adamjmurray/producer-pal-sub000/notation"
)

// ErrUnknownTool is returned by Execute for names the registry does not know.
var ErrUnknownTool = errors.New("unknown tool")

// Handler executes one tool call.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is a registered tool with its schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"input_schema"`
	Handler     Handler        `json:"-"`
}

// Registry routes tool calls to handlers. It caches the read-song overview;
// mutating tools schedule a debounced cache drop so a burst of writes
// refreshes it once.
type Registry struct {
	client  live.Client
	metrics *metrics.SentryMetrics

	tools map[string]*Tool
	order []string

	songMu     sync.Mutex
	songCache  *models.SongInfo
	invalidate func(func())
}

// NewRegistry builds a registry with the full tool set wired to the given
// host client.
func NewRegistry(client live.Client, m *metrics.SentryMetrics) *Registry {
	r := &Registry{
		client:     client,
		metrics:    m,
		tools:      make(map[string]*Tool),
		invalidate: debounce.New(100 * time.Millisecond),
	}
	r.add(r.readSongTool())
	r.add(r.readTrackTool())
	r.add(r.readSceneTool())
	r.add(r.readClipTool())
	r.add(r.writeClipTool())
	r.add(r.updateClipTool())
	r.add(r.duplicateClipTool())
	return r
}

func (r *Registry) add(t *Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Tools lists the registered tools in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute runs the named tool. Errors are prefixed with the tool name so a
// model sees which operation failed; the underlying codec error stays
// unwrappable for classification.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	callID := uuid.NewString()
	start := time.Now()
	result, err := t.Handler(ctx, args)
	r.metrics.RecordToolCall(ctx, name, callID, time.Since(start), err == nil)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return result, nil
}

// dropSongCache schedules a debounced invalidation of the cached song
// overview.
func (r *Registry) dropSongCache() {
	r.invalidate(func() {
		r.songMu.Lock()
		r.songCache = nil
		r.songMu.Unlock()
		log.Printf("song cache invalidated")
	})
}

// timeSig reads the active time signature from the host.
func (r *Registry) timeSig(ctx context.Context) (notation.TimeSig, error) {
	num, err := r.hostInt(ctx, "live_set", "signature_numerator")
	if err != nil {
		return notation.TimeSig{}, err
	}
	den, err := r.hostInt(ctx, "live_set", "signature_denominator")
	if err != nil {
		return notation.TimeSig{}, err
	}
	sig := notation.TimeSig{Numerator: num, Denominator: den}
	if err := sig.Validate(); err != nil {
		return notation.TimeSig{}, err
	}
	return sig, nil
}

func (r *Registry) hostInt(ctx context.Context, path, property string) (int, error) {
	v, err := r.client.Get(ctx, path, property)
	if err != nil {
		return 0, err
	}
	n, ok := asInt(v)
	if !ok {
		return 0, fmt.Errorf("property %s of %s is not a number (%T)", property, path, v)
	}
	return n, nil
}

func (r *Registry) hostFloat(ctx context.Context, path, property string) (float64, error) {
	v, err := r.client.Get(ctx, path, property)
	if err != nil {
		return 0, err
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, fmt.Errorf("property %s of %s is not a number (%T)", property, path, v)
	}
	return f, nil
}

func (r *Registry) hostString(ctx context.Context, path, property string) (string, error) {
	v, err := r.client.Get(ctx, path, property)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", v), nil
}

func (r *Registry) hostBool(ctx context.Context, path, property string) (bool, error) {
	v, err := r.client.Get(ctx, path, property)
	if err != nil {
		return false, err
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if n, ok := asInt(v); ok {
		return n != 0, nil
	}
	return false, fmt.Errorf("property %s of %s is not a bool (%T)", property, path, v)
}
