// Package session implements the request-lifecycle state machine behind a
// paginated, re-filterable review list.
//
// # Overview
//
// A Session holds the current status, the accumulated reviews, the active
// filter, and the handle of the one request it considers authoritative.
// Transition is a pure function from (Session, Event) to the next Session
// plus the Effects the caller must run; it performs no I/O. Machine wraps it
// in a side-effecting shell that mints handles, runs effects, and feeds each
// fetch outcome back through Transition as an event.
//
// # States
//
//   - initial: constructed, nothing requested yet
//   - fetchingReviews: a first-page request is in flight
//   - fetchingMoreReviews: a next-page request is in flight
//   - idle: a page arrived and more are available
//   - hasFetchedAllReviews: the last page arrived
//   - failed: the authoritative request failed
//
// There is no terminal state.
//
// # Stale Outcomes
//
// Every outcome event carries the handle of the request that produced it.
// An outcome whose handle is not the session's active handle is discarded
// without changing the session. Starting a new fetch while one is in flight
// emits a CancelEffect for the old handle before the FetchEffect for the
// new one, so the superseded request can never overwrite the newer result.
//
// # Usage
//
//	m := session.NewMachine(client, base, session.WithLogger(logger))
//	defer m.Close()
//	snapshots, _ := m.Subscribe(ctx)
//	if err := m.RequestInitialLoad(ctx); err != nil {
//	    return err
//	}
//	for snap := range snapshots {
//	    render(snap)
//	}
package session
