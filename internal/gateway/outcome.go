// ABOUTME: Outcome and Failure types returned by the request gateway
// ABOUTME: Failures carry a Reason so cancellation is distinguishable from real errors

package gateway

import (
	"errors"
	"fmt"

	"github.com/2389/reviewfeed/internal/review"
)

// Reason classifies a failed request.
type Reason string

const (
	ReasonCanceled Reason = "canceled"
	ReasonStatus   Reason = "status"
	ReasonNetwork  Reason = "network"
	ReasonDecode   Reason = "decode"
	ReasonInvalid  Reason = "invalid"
)

// Failure is the normalized error for a request that produced no page.
type Failure struct {
	Reason     Reason
	StatusCode int    // set for ReasonStatus
	Message    string // human readable, suitable for an error banner
	Err        error  // underlying cause, if any
}

func (f *Failure) Error() string {
	if f.Reason == ReasonStatus {
		return fmt.Sprintf("search request failed with status %d: %s", f.StatusCode, f.Message)
	}
	return fmt.Sprintf("search request %s: %s", f.Reason, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsCanceled reports whether err is a Failure caused by cancellation.
func IsCanceled(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Reason == ReasonCanceled
}

// Outcome is the result of one FetchPage call. Exactly one of Page (when Err
// is nil) or Err is meaningful. Handle is always set.
type Outcome struct {
	Handle *Handle
	Page   review.Page
	Err    *Failure
}

// OK reports whether the outcome carries a page.
func (o Outcome) OK() bool { return o.Err == nil }

// Query is the parameter set for one search request.
type Query struct {
	Filter review.Filter
	Offset *int // nil for a first-page request
}

// Key returns a stable cache key for the query. The credential is excluded.
func (q Query) Key() string {
	return q.Filter.Identity(q.Offset)
}
