// ABOUTME: Machine is the side-effecting shell around the pure session transition
// ABOUTME: Mints handles, runs cancel and fetch effects in order, and routes outcomes back as events

package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/reviewfeed/internal/broadcast"
	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/review"
)

// ErrClosed is returned by intents issued after Close.
var ErrClosed = errors.New("session closed")

// Fetcher performs one search request. *gateway.Client satisfies it.
type Fetcher interface {
	FetchPage(h *gateway.Handle, q gateway.Query) gateway.Outcome
}

// Machine owns a Session and serializes every event through Transition.
// Events are applied strictly in arrival order.
type Machine struct {
	mu      sync.Mutex
	session Session
	closed  bool

	fetcher Fetcher
	ctx     context.Context // parent of every minted handle
	stop    context.CancelFunc
	wg      sync.WaitGroup

	snapshots *broadcast.Broadcaster[Snapshot]
	logger    *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger. Nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger.With("component", "session")
		}
	}
}

// WithContext sets the parent context for all requests. Cancelling it
// cancels every in-flight request.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// NewMachine creates a machine in the initial state. base is merged into
// every request and should carry the API credential.
func NewMachine(fetcher Fetcher, base review.Filter, opts ...Option) *Machine {
	m := &Machine{
		session: New(base),
		fetcher: fetcher,
		ctx:     context.Background(),
		logger:  slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.stop = context.WithCancel(m.ctx)
	m.snapshots = broadcast.New[Snapshot](m.logger)
	return m
}

// RequestInitialLoad fetches the first page for the current filter.
func (m *Machine) RequestInitialLoad() error {
	return m.start(func(h *gateway.Handle) Event {
		return StartFetch{Handle: h}
	})
}

// RequestLoadMore fetches the page after the items already loaded.
func (m *Machine) RequestLoadMore() error {
	return m.start(func(h *gateway.Handle) Event {
		return StartLoadMore{Handle: h}
	})
}

// SetReviewerFilter restarts the list constrained to reviewer. An empty
// name clears the constraint.
func (m *Machine) SetReviewerFilter(reviewer string) error {
	return m.Refilter(review.Filter{review.KeyReviewer: strings.TrimSpace(reviewer)})
}

// Refilter restarts the list with overrides merged into the filter.
func (m *Machine) Refilter(overrides review.Filter) error {
	return m.start(func(h *gateway.Handle) Event {
		return StartFetch{Handle: h, Overrides: overrides}
	})
}

// Dispatch feeds ev through the transition function and runs the resulting
// effects. Outcome events for superseded requests are discarded silently.
func (m *Machine) Dispatch(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return m.dispatchLocked(ev)
}

// Snapshot returns the current renderable state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Snapshot()
}

// Subscribe returns a channel that receives a Snapshot after every applied
// transition. The subscription ends when ctx is cancelled or the machine
// is closed.
func (m *Machine) Subscribe(ctx context.Context) (<-chan Snapshot, string) {
	return m.snapshots.Subscribe(ctx)
}

// Close cancels any in-flight request, waits for fetch goroutines to finish,
// and closes all subscriptions. It is safe to call more than once.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.session.Active != nil {
		m.session.Active.Cancel()
	}
	m.stop()
	m.mu.Unlock()

	m.wg.Wait()
	m.snapshots.Close()
}

// start mints a handle, dispatches the event built from it, and releases the
// handle if the event is rejected.
func (m *Machine) start(build func(h *gateway.Handle) Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	h := gateway.NewHandle(m.ctx)
	if err := m.dispatchLocked(build(h)); err != nil {
		h.Cancel()
		return err
	}
	return nil
}

// dispatchLocked applies ev. Must be called with mu held.
func (m *Machine) dispatchLocked(ev Event) error {
	prev := m.session

	if h, ok := outcomeHandle(ev); ok && isStale(prev, h) {
		m.logger.Debug("discarding stale outcome",
			"event", ev.Name(),
			"handle", h.String(),
			"active", prev.Active.String(),
			"status", prev.Status.String())
		return nil
	}

	next, effects, err := Transition(prev, ev)
	if err != nil {
		m.logger.Error("rejected event",
			"event", ev.Name(),
			"status", prev.Status.String(),
			"error", err)
		return err
	}

	m.session = next
	m.logger.Debug("transition",
		"event", ev.Name(),
		"from", prev.Status.String(),
		"to", next.Status.String(),
		"items", len(next.Items))

	for _, eff := range effects {
		m.run(eff)
	}

	m.snapshots.Publish(next.Snapshot())
	return nil
}

// run performs one effect. Cancellation happens synchronously so that it is
// always observed before the fetch that follows it is issued.
func (m *Machine) run(eff Effect) {
	switch e := eff.(type) {
	case CancelEffect:
		e.Handle.Cancel()
		m.logger.Debug("request superseded", "handle", e.Handle.String())
	case FetchEffect:
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			out := m.fetcher.FetchPage(e.Handle, e.Query)
			if out.Handle == nil {
				out.Handle = e.Handle
			}
			if err := m.Dispatch(OutcomeEvent(out)); err != nil && !errors.Is(err, ErrClosed) {
				m.logger.Error("outcome rejected", "handle", e.Handle.String(), "error", err)
			}
		}()
	}
}

func outcomeHandle(ev Event) (*gateway.Handle, bool) {
	switch e := ev.(type) {
	case FetchSucceeded:
		return e.Handle, true
	case FetchFailed:
		return e.Handle, true
	}
	return nil, false
}
