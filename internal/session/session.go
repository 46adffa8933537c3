// ABOUTME: Session aggregate and its read-only Snapshot projection
// ABOUTME: Snapshot flags drive the loading indicator, load-more affordance, and error banner

package session

import (
	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/review"
)

// Session is the state owned by one fetch session.
type Session struct {
	Status Status
	// Items are in display order. Replaced by a first-page response,
	// extended by a next-page response.
	Items  []review.Review
	Filter review.Filter
	// Active is the handle of the authoritative in-flight request. It is
	// set if and only if Status is fetchingReviews or fetchingMoreReviews.
	Active *gateway.Handle
	// LastError is set only while Status is failed.
	LastError error
}

// New returns a session in the initial state with the given base filter.
func New(base review.Filter) Session {
	return Session{
		Status: StatusInitial,
		Items:  []review.Review{},
		Filter: base.Clone(),
	}
}

// Snapshot is a read-only view of a Session for rendering.
type Snapshot struct {
	Status Status
	Items  []review.Review
	Filter review.Filter
	Err    error

	Loading     bool // show the loading indicator
	CanLoadMore bool // show the load-more affordance
	Failed      bool // show the error banner
}

// Snapshot copies the renderable parts of s.
func (s Session) Snapshot() Snapshot {
	items := make([]review.Review, len(s.Items))
	copy(items, s.Items)

	return Snapshot{
		Status:      s.Status,
		Items:       items,
		Filter:      s.Filter.Clone(),
		Err:         s.LastError,
		Loading:     s.Status.Loading(),
		CanLoadMore: s.Status == StatusIdle,
		Failed:      s.Status == StatusFailed,
	}
}

// Reviewer returns the reviewer constraint, or "" when unconstrained.
func (s Snapshot) Reviewer() string {
	return s.Filter[review.KeyReviewer]
}
