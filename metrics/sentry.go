package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics records tool-call metrics as Sentry spans. It is a no-op
// when disabled, so callers never need to nil-check.
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a metrics recorder. Pass enabled=false when no
// Sentry DSN is configured.
func NewSentryMetrics(enabled bool) *SentryMetrics {
	return &SentryMetrics{enabled: enabled}
}

// RecordToolCall records one tool execution.
func (m *SentryMetrics) RecordToolCall(ctx context.Context, tool, callID string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("tool.name", tool)
		transaction.SetTag("tool.success", fmt.Sprintf("%t", success))
		transaction.SetData("tool.duration_ms", duration.Milliseconds())
	}

	span := sentry.StartSpan(ctx, "tool.call")
	defer span.Finish()

	span.SetTag("tool", tool)
	span.SetTag("call_id", callID)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Tool Call: %s", tool)
}

// RecordNotationSize records how much notation a clip tool moved: note
// events on one side, notation characters on the other.
func (m *SentryMetrics) RecordNotationSize(ctx context.Context, tool string, noteCount, notationChars int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "notation.codec")
	defer span.Finish()

	span.SetTag("tool", tool)
	span.SetData("note_count", noteCount)
	span.SetData("notation_chars", notationChars)
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Notation: %s", tool)
}
