// ABOUTME: Handle is the opaque ownership token identifying one outbound request
// ABOUTME: Carries a monotonic epoch, a request ID, and an idempotent cancel func

package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var epochCounter atomic.Uint64

// Handle identifies a single outbound request. Handles must be compared by
// pointer identity.
type Handle struct {
	epoch     uint64
	requestID string
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewHandle mints a handle whose context derives from parent.
func NewHandle(parent context.Context) *Handle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Handle{
		epoch:     epochCounter.Add(1),
		requestID: uuid.New().String(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Epoch returns the handle's position in minting order.
func (h *Handle) Epoch() uint64 { return h.epoch }

// RequestID returns the unique ID attached to log lines for this request.
func (h *Handle) RequestID() string { return h.requestID }

// Context returns the context the request is bound to. It is done once the
// handle is cancelled.
func (h *Handle) Context() context.Context { return h.ctx }

// Cancel signals the request to stop. Safe to call more than once.
func (h *Handle) Cancel() { h.cancel() }

// Canceled reports whether Cancel has been called or the parent context ended.
func (h *Handle) Canceled() bool { return h.ctx.Err() != nil }

func (h *Handle) String() string {
	if h == nil {
		return "<nil>"
	}
	return fmt.Sprintf("#%d(%s)", h.epoch, h.requestID)
}
