// ABOUTME: Pure transition function for the fetch session state machine
// ABOUTME: Returns the next Session and the ordered Effects the shell must run

package session

import (
	"errors"

	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/review"
)

// ErrMissingHandle is returned when a start event carries no handle.
var ErrMissingHandle = errors.New("start event has no request handle")

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

// CancelEffect asks the shell to cancel a superseded request.
type CancelEffect struct {
	Handle *gateway.Handle
}

// FetchEffect asks the shell to issue a request and route its outcome back.
type FetchEffect struct {
	Handle *gateway.Handle
	Query  gateway.Query
}

func (CancelEffect) effect() {}
func (FetchEffect) effect()  {}

// Transition computes the session that follows s after ev, together with the
// effects to run in order. It never mutates s. Outcome events whose handle is
// not s.Active are discarded in every state: s is returned unchanged with no
// effects and no error. An event the current state does not accept yields an
// *IllegalTransitionError and s unchanged.
func Transition(s Session, ev Event) (Session, []Effect, error) {
	switch e := ev.(type) {
	case FetchSucceeded:
		if isStale(s, e.Handle) {
			return s, nil, nil
		}
	case FetchFailed:
		if isStale(s, e.Handle) {
			return s, nil, nil
		}
	case StartFetch:
		if e.Handle == nil {
			return s, nil, ErrMissingHandle
		}
	case StartLoadMore:
		if e.Handle == nil {
			return s, nil, ErrMissingHandle
		}
	}

	switch s.Status {
	case StatusInitial:
		if e, ok := ev.(StartFetch); ok {
			return s.startFetch(e, false)
		}

	case StatusFetchingReviews:
		switch e := ev.(type) {
		case StartFetch:
			return s.startFetch(e, false)
		case FetchSucceeded:
			return s.settle(e.Page.Items, e.Page.HasMore), nil, nil
		case FetchFailed:
			return s.fail(e.Err), nil, nil
		}

	case StatusFetchingMoreReviews:
		switch e := ev.(type) {
		case StartFetch:
			return s.startFetch(e, false)
		case StartLoadMore:
			return s.startLoadMore(e)
		case FetchSucceeded:
			return s.settle(appendItems(s.Items, e.Page.Items), e.Page.HasMore), nil, nil
		case FetchFailed:
			return s.fail(e.Err), nil, nil
		}

	case StatusIdle:
		switch e := ev.(type) {
		case StartFetch:
			return s.startFetch(e, true)
		case StartLoadMore:
			return s.startLoadMore(e)
		}

	case StatusFailed, StatusHasFetchedAllReviews:
		if e, ok := ev.(StartFetch); ok {
			return s.startFetch(e, true)
		}
	}

	return s, nil, &IllegalTransitionError{Event: ev.Name(), State: s.Status}
}

// isStale reports whether an outcome for h must be discarded.
func isStale(s Session, h *gateway.Handle) bool {
	return h == nil || h != s.Active
}

// settle applies an authoritative page.
func (s Session) settle(items []review.Review, hasMore bool) Session {
	next := s
	next.Items = copyItems(items)
	next.Active = nil
	next.LastError = nil
	if hasMore {
		next.Status = StatusIdle
	} else {
		next.Status = StatusHasFetchedAllReviews
	}
	return next
}

// fail records an authoritative failure. Items are preserved.
func (s Session) fail(err error) Session {
	if err == nil {
		err = errors.New("fetch failed")
	}
	next := s
	next.Status = StatusFailed
	next.Active = nil
	next.LastError = err
	return next
}

// startFetch enters fetchingReviews and requests the first page for the
// merged filter. clearItems empties the list immediately; otherwise the
// current items stay until the response replaces them.
func (s Session) startFetch(e StartFetch, clearItems bool) (Session, []Effect, error) {
	next := s
	next.Status = StatusFetchingReviews
	next.Active = e.Handle
	next.Filter = s.Filter.Merge(e.Overrides)
	next.LastError = nil
	if clearItems {
		next.Items = []review.Review{}
	}

	effects := supersede(s)
	effects = append(effects, FetchEffect{
		Handle: e.Handle,
		Query:  gateway.Query{Filter: next.Filter.Clone()},
	})
	return next, effects, nil
}

// startLoadMore enters fetchingMoreReviews and requests the page that
// follows the items already held.
func (s Session) startLoadMore(e StartLoadMore) (Session, []Effect, error) {
	next := s
	next.Status = StatusFetchingMoreReviews
	next.Active = e.Handle
	next.LastError = nil

	offset := len(s.Items)
	effects := supersede(s)
	effects = append(effects, FetchEffect{
		Handle: e.Handle,
		Query:  gateway.Query{Filter: s.Filter.Clone(), Offset: &offset},
	})
	return next, effects, nil
}

// supersede returns the cancellation of the active request, if any. It must
// precede the fetch that replaces it.
func supersede(s Session) []Effect {
	effects := make([]Effect, 0, 2)
	if s.Active != nil {
		effects = append(effects, CancelEffect{Handle: s.Active})
	}
	return effects
}

func appendItems(existing, more []review.Review) []review.Review {
	out := make([]review.Review, 0, len(existing)+len(more))
	out = append(out, existing...)
	return append(out, more...)
}

func copyItems(items []review.Review) []review.Review {
	out := make([]review.Review, len(items))
	copy(out, items)
	return out
}
