// Package searchapi serves a local stand-in for the movie reviews search
// endpoint, backed by the SQLite review catalog.
//
// # Overview
//
// Handler answers GET requests on Path with the same envelope the remote
// service uses:
//
//	{"status":"OK","num_results":20,"has_more":true,"results":[...]}
//
// Query parameters:
//
//   - api-key: required when the server is configured with a key
//   - reviewer: exact byline, case-insensitive
//   - query: substring of the title
//   - order: by-publication-date (default), by-opening-date, by-title
//   - offset: number of results to skip
//
// Errors use {"status":"ERROR","error":"..."} except a bad key, which is
// reported as {"fault":{"faultstring":"Invalid ApiKey"}} with status 401.
//
// # Latency
//
// WithLatency delays every response. The delay aborts when the client goes
// away, which makes it useful for exercising superseded and canceled
// requests against a real server.
package searchapi
