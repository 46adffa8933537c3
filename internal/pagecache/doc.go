// Package pagecache provides a size-bounded, TTL-based cache of search result
// pages keyed by the encoded query that produced them.
package pagecache
