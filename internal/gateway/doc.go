// Package gateway issues outbound search requests against the remote review
// API on behalf of a fetch session.
//
// # Overview
//
// The gateway is the only component that performs network I/O. It takes a
// Query (filter plus optional offset) and a Handle, performs one HTTP GET
// bound to the handle's context, and returns an Outcome tagged with that
// same handle. It never reads or writes session state.
//
// # Handles
//
// A Handle is the ownership token for one request. Handles are compared by
// pointer identity; each carries a monotonic epoch and a request ID for
// logging. Cancelling a handle is idempotent and only asks the in-flight
// call to stop early:
//
//	h := gateway.NewHandle(ctx)
//	out := client.FetchPage(h, gateway.Query{Filter: f})
//	h.Cancel()
//
// # Failures
//
// Every failure is reified as a *Failure on the Outcome, never returned as a
// raw transport error:
//
//   - canceled: the handle was cancelled before or during the call
//   - status: the API answered with a non-2xx status
//   - network: the request could not be completed
//   - decode: the response body was not a valid search response
//   - invalid: the call was made without a handle
//
// # Caching
//
// A Client built WithCache answers repeated queries from a pagecache.Cache.
// Only successful pages are stored.
package gateway
