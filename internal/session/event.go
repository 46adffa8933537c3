// ABOUTME: Events accepted by the session state machine
// ABOUTME: Start events carry a freshly minted handle; outcome events carry the producing handle

package session

import (
	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/review"
)

// Event drives a transition.
type Event interface {
	// Name identifies the event in errors and logs.
	Name() string
}

// StartFetch requests a first page, optionally changing the filter.
type StartFetch struct {
	Handle    *gateway.Handle
	Overrides review.Filter
}

// StartLoadMore requests the page after the items already held.
type StartLoadMore struct {
	Handle *gateway.Handle
}

// FetchSucceeded reports a page for the request identified by Handle.
type FetchSucceeded struct {
	Handle *gateway.Handle
	Page   review.Page
}

// FetchFailed reports a failure for the request identified by Handle.
type FetchFailed struct {
	Handle *gateway.Handle
	Err    error
}

func (StartFetch) Name() string     { return "fetchReviewsStart" }
func (StartLoadMore) Name() string  { return "fetchMoreReviewsStart" }
func (FetchSucceeded) Name() string { return "fetchReviewsSuccess" }
func (FetchFailed) Name() string    { return "fetchReviewsFailure" }

// OutcomeEvent converts a gateway outcome into the matching event.
func OutcomeEvent(out gateway.Outcome) Event {
	if out.Err != nil {
		return FetchFailed{Handle: out.Handle, Err: out.Err}
	}
	return FetchSucceeded{Handle: out.Handle, Page: out.Page}
}
