// Package review defines the value types shared by the request gateway and
// the session state machine.
//
// # Overview
//
// A Review is opaque to the state machine: it is carried from the remote
// search API to the renderer untouched. A Filter is the flat set of query
// parameters merged into every outbound search request, including the
// opaque API credential under the "api-key" key.
//
// # Filters
//
// Filters are merged shallowly. An override with an empty value removes the
// key, which is how a reviewer constraint is cleared:
//
//	base := review.Filter{review.KeyAPIKey: "secret"}
//	f := base.Merge(review.Filter{review.KeyReviewer: "Amy Nicholson"})
//	f = f.Merge(review.Filter{review.KeyReviewer: ""}) // reviewer removed
package review
