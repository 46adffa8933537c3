// ABOUTME: Store interface and query types for the review catalog
// ABOUTME: Defines SearchParams/SearchResult and the Store interface used by the dev search API

package store

import (
	"context"
	"errors"

	"github.com/2389/reviewfeed/internal/review"
)

// ErrInvalidOrder is returned by Search for an unrecognized order value
var ErrInvalidOrder = errors.New("invalid order")

// Order values accepted by Search
const (
	OrderByPublicationDate = "by-publication-date"
	OrderByOpeningDate     = "by-opening-date"
	OrderByTitle           = "by-title"
)

// SearchParams selects one page of reviews
type SearchParams struct {
	Reviewer string // exact byline match, case-insensitive; empty = any
	Query    string // substring of the display title; empty = any
	Order    string // one of the Order* constants; empty = by-publication-date
	Offset   int
	Limit    int // defaults to 20, capped at 100
}

// SearchResult is one page of reviews
type SearchResult struct {
	Reviews []review.Review
	HasMore bool
}

// Store defines the catalog operations used by the search API
type Store interface {
	UpsertReviews(ctx context.Context, reviews []review.Review) (int, error)
	Search(ctx context.Context, p SearchParams) (*SearchResult, error)
	CountReviews(ctx context.Context) (int, error)
	ListReviewers(ctx context.Context) ([]string, error)
	Close() error
}
