// ABOUTME: Status enumerates the six states of a fetch session
// ABOUTME: String values match the identifiers used in logs and error messages

package session

// Status is the lifecycle state of a Session.
type Status int

const (
	StatusInitial Status = iota
	StatusFetchingReviews
	StatusFetchingMoreReviews
	StatusIdle
	StatusHasFetchedAllReviews
	StatusFailed
)

var statusNames = [...]string{
	StatusInitial:              "initial",
	StatusFetchingReviews:      "fetchingReviews",
	StatusFetchingMoreReviews:  "fetchingMoreReviews",
	StatusIdle:                 "idle",
	StatusHasFetchedAllReviews: "hasFetchedAllReviews",
	StatusFailed:               "failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Fetching reports whether a request is in flight in this state.
func (s Status) Fetching() bool {
	return s == StatusFetchingReviews || s == StatusFetchingMoreReviews
}

// Loading reports whether a loading indicator should be shown.
func (s Status) Loading() bool {
	return s == StatusInitial || s.Fetching()
}
