// Package live provides access to path-addressed objects in the host's
// object tree ("live_set", "live_set tracks 0 clip_slots 1 clip", ...).
// The tool layer is written against the Client interface; a real host bridge
// and the in-memory mock both satisfy it.
package live

import "context"

// Client reads, writes, and calls methods on host objects. Every operation
// either succeeds or fails immediately with a descriptive error; there are
// no retries.
type Client interface {
	Get(ctx context.Context, path, property string) (any, error)
	Set(ctx context.Context, path, property string, value any) error
	Call(ctx context.Context, path, method string, args ...any) (any, error)
}
