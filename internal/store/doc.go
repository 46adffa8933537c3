// Package store provides the review catalog behind the development search API.
//
// # Overview
//
// The catalog is a single SQLite table of movie reviews keyed by link URL.
// It backs cmd/fake-reviews, which serves the same JSON shape as the remote
// reviews search endpoint so the client can be exercised offline.
//
// # Querying
//
// Search filters by reviewer (exact byline, case-insensitive) and by a
// substring of the title, orders by publication date or title, and pages
// with Offset/Limit. It reads one row past Limit to report HasMore.
//
// # Seeding
//
// Fixtures are TOML files of [[review]] tables:
//
//	[[review]]
//	title = "Past Lives"
//	byline = "Glenn Kenny"
//	published = "2023-06-01"
//	url = "https://example.com/past-lives"
//
// Seed upserts them, so reseeding the same file is idempotent.
//
// # SQLite Configuration
//
// The store uses modernc.org/sqlite (pure Go) with WAL mode enabled.
package store
