// ABOUTME: Review catalog queries: upsert, paged search, counting and reviewer listing
// ABOUTME: Search fetches limit+1 rows so callers learn whether another page exists

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/2389/reviewfeed/internal/review"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// UpsertReviews inserts reviews, replacing any row with the same link URL.
// Reviews without a link URL are skipped. Returns the number written.
func (s *SQLiteStore) UpsertReviews(ctx context.Context, reviews []review.Review) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (
			display_title, byline, headline, summary_short, publication_date,
			link_type, link_url, link_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link_url) DO UPDATE SET
			display_title = excluded.display_title,
			byline = excluded.byline,
			headline = excluded.headline,
			summary_short = excluded.summary_short,
			publication_date = excluded.publication_date,
			link_type = excluded.link_type,
			link_text = excluded.link_text
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range reviews {
		if r.Link.URL == "" {
			s.logger.Warn("skipping review without link", "title", r.DisplayTitle)
			continue
		}
		linkType := r.Link.Type
		if linkType == "" {
			linkType = "article"
		}
		if _, err := stmt.ExecContext(ctx,
			r.DisplayTitle, r.Byline, r.Headline, r.SummaryShort, r.PublicationDate,
			linkType, r.Link.URL, r.Link.SuggestedLinkText,
		); err != nil {
			return written, fmt.Errorf("upserting review %q: %w", r.Link.URL, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing reviews: %w", err)
	}
	return written, nil
}

// Search returns one page of reviews matching p.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	orderBy, err := orderClause(p.Order)
	if err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if p.Reviewer != "" {
		conditions = append(conditions, "byline = ? COLLATE NOCASE")
		args = append(args, p.Reviewer)
	}
	if p.Query != "" {
		conditions = append(conditions, "display_title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(p.Query)+"%")
	}

	query := `
		SELECT display_title, byline, headline, summary_short, publication_date,
		       link_type, link_url, link_text
		FROM reviews`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	// Fetch one extra to detect if there are more
	args = append(args, limit+1, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]review.Review, 0, limit)
	for rows.Next() {
		var r review.Review
		if err := rows.Scan(
			&r.DisplayTitle, &r.Byline, &r.Headline, &r.SummaryShort, &r.PublicationDate,
			&r.Link.Type, &r.Link.URL, &r.Link.SuggestedLinkText,
		); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}

	result := &SearchResult{Reviews: reviews}
	if len(reviews) > limit {
		result.HasMore = true
		result.Reviews = reviews[:limit]
	}
	return result, nil
}

// CountReviews returns the number of reviews in the catalog.
func (s *SQLiteStore) CountReviews(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reviews: %w", err)
	}
	return n, nil
}

// ListReviewers returns the distinct bylines in the catalog, alphabetically.
func (s *SQLiteStore) ListReviewers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT byline FROM reviews ORDER BY byline COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("listing reviewers: %w", err)
	}
	defer rows.Close()

	var reviewers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning reviewer: %w", err)
		}
		reviewers = append(reviewers, name)
	}
	return reviewers, rows.Err()
}

// orderClause maps an order parameter onto a fixed SQL fragment.
func orderClause(order string) (string, error) {
	switch order {
	case "", OrderByPublicationDate, OrderByOpeningDate:
		return "publication_date DESC, review_id DESC", nil
	case OrderByTitle:
		return "display_title COLLATE NOCASE ASC, review_id ASC", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
