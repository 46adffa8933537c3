// Package broadcast provides in-memory fan-out of values to subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// value. Subscribers that only need the latest state should treat each
// received value as a replacement for the previous one.
package broadcast
