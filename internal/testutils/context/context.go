package context

import (
	"context"
	"testing"
	"time"
)

// WithTest bounds ctx by the test deadline, leaving a second for cleanups.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	deadline, ok := t.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-time.Second))
}
