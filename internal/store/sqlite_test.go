// ABOUTME: Tests for the SQLite review catalog
// ABOUTME: Covers schema creation, upsert semantics, search filtering, ordering and paging

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389/reviewfeed/internal/review"
)

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "reviews.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestUpsertReviews_ReplacesByURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.UpsertReviews(ctx, []review.Review{
		testReview("Past Lives", "Glenn Kenny", "2023-06-01"),
	})
	if err != nil {
		t.Fatalf("UpsertReviews failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 written, got %d", n)
	}

	updated := testReview("Past Lives", "Glenn Kenny", "2023-06-02")
	updated.SummaryShort = "Revised."
	if _, err := store.UpsertReviews(ctx, []review.Review{updated}); err != nil {
		t.Fatalf("UpsertReviews (update) failed: %v", err)
	}

	count, err := store.CountReviews(ctx)
	if err != nil {
		t.Fatalf("CountReviews failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 review after upsert, got %d", count)
	}

	result, err := store.Search(ctx, SearchParams{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	got := result.Reviews[0]
	if got.SummaryShort != "Revised." || got.PublicationDate != "2023-06-02" {
		t.Errorf("review not updated: %+v", got)
	}
}

func TestUpsertReviews_SkipsMissingURL(t *testing.T) {
	store := newTestStore(t)

	r := testReview("Untitled", "Amy Nicholson", "2023-01-01")
	r.Link.URL = ""
	n, err := store.UpsertReviews(context.Background(), []review.Review{r})
	if err != nil {
		t.Fatalf("UpsertReviews failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 written, got %d", n)
	}
}

func TestSearch_FiltersByReviewer(t *testing.T) {
	store := seededStore(t)

	result, err := store.Search(context.Background(), SearchParams{Reviewer: "glenn kenny"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Reviews) != 3 {
		t.Fatalf("expected 3 reviews by Glenn Kenny, got %d", len(result.Reviews))
	}
	for _, r := range result.Reviews {
		if r.Byline != "Glenn Kenny" {
			t.Errorf("unexpected byline %q", r.Byline)
		}
	}
	if result.HasMore {
		t.Error("expected HasMore=false")
	}
}

func TestSearch_FiltersByTitleQuery(t *testing.T) {
	store := seededStore(t)

	result, err := store.Search(context.Background(), SearchParams{Query: "night"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Reviews) != 1 || result.Reviews[0].DisplayTitle != "Night Film 1" {
		t.Errorf("unexpected results: %+v", result.Reviews)
	}
}

func TestSearch_QueryEscapesWildcards(t *testing.T) {
	store := seededStore(t)

	result, err := store.Search(context.Background(), SearchParams{Query: "%"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Reviews) != 0 {
		t.Errorf("expected literal %% to match nothing, got %d", len(result.Reviews))
	}
}

func TestSearch_OrdersByPublicationDateDescending(t *testing.T) {
	store := seededStore(t)

	result, err := store.Search(context.Background(), SearchParams{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 1; i < len(result.Reviews); i++ {
		if result.Reviews[i-1].PublicationDate < result.Reviews[i].PublicationDate {
			t.Fatalf("results not in descending date order at %d: %s < %s",
				i, result.Reviews[i-1].PublicationDate, result.Reviews[i].PublicationDate)
		}
	}
}

func TestSearch_OrdersByTitle(t *testing.T) {
	store := seededStore(t)

	result, err := store.Search(context.Background(), SearchParams{Order: OrderByTitle})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Reviews[0].DisplayTitle != "Day Film 1" {
		t.Errorf("expected Day Film 1 first, got %q", result.Reviews[0].DisplayTitle)
	}
}

func TestSearch_RejectsUnknownOrder(t *testing.T) {
	store := seededStore(t)

	_, err := store.Search(context.Background(), SearchParams{Order: "by-vibes"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestSearch_Pagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var reviews []review.Review
	for i := 0; i < 25; i++ {
		reviews = append(reviews, testReview(
			fmt.Sprintf("Film %02d", i), "Devika Girish", fmt.Sprintf("2023-01-%02d", i+1)))
	}
	if _, err := store.UpsertReviews(ctx, reviews); err != nil {
		t.Fatalf("UpsertReviews failed: %v", err)
	}

	first, err := store.Search(ctx, SearchParams{Limit: 10})
	if err != nil {
		t.Fatalf("Search page 1 failed: %v", err)
	}
	if len(first.Reviews) != 10 || !first.HasMore {
		t.Fatalf("page 1: got %d reviews, HasMore=%v", len(first.Reviews), first.HasMore)
	}

	second, err := store.Search(ctx, SearchParams{Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("Search page 2 failed: %v", err)
	}
	if second.Reviews[0].Key() == first.Reviews[9].Key() {
		t.Error("page 2 overlaps page 1")
	}

	last, err := store.Search(ctx, SearchParams{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("Search page 3 failed: %v", err)
	}
	if len(last.Reviews) != 5 || last.HasMore {
		t.Errorf("page 3: got %d reviews, HasMore=%v", len(last.Reviews), last.HasMore)
	}

	past, err := store.Search(ctx, SearchParams{Limit: 10, Offset: 40})
	if err != nil {
		t.Fatalf("Search past end failed: %v", err)
	}
	if len(past.Reviews) != 0 || past.HasMore {
		t.Errorf("past end: got %d reviews, HasMore=%v", len(past.Reviews), past.HasMore)
	}
}

func TestListReviewers(t *testing.T) {
	store := seededStore(t)

	reviewers, err := store.ListReviewers(context.Background())
	if err != nil {
		t.Fatalf("ListReviewers failed: %v", err)
	}
	want := []string{"Amy Nicholson", "Glenn Kenny"}
	if len(reviewers) != len(want) {
		t.Fatalf("expected %v, got %v", want, reviewers)
	}
	for i := range want {
		if reviewers[i] != want[i] {
			t.Errorf("reviewer %d: expected %q, got %q", i, want[i], reviewers[i])
		}
	}
}

func testReview(title, byline, published string) review.Review {
	return review.Review{
		DisplayTitle:    title,
		Byline:          byline,
		Headline:        fmt.Sprintf("'%s' Review", title),
		PublicationDate: published,
		Link: review.Link{
			Type: "article",
			URL:  "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		},
	}
}

func seededStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := newTestStore(t)
	_, err := store.UpsertReviews(context.Background(), []review.Review{
		testReview("Night Film 1", "Glenn Kenny", "2023-03-01"),
		testReview("Day Film 1", "Glenn Kenny", "2023-02-01"),
		testReview("Film 2", "Glenn Kenny", "2023-01-01"),
		testReview("Film 3", "Amy Nicholson", "2023-04-01"),
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return store
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}
