// ABOUTME: TOML fixture loading for seeding the review catalog
// ABOUTME: Parses [[review]] tables into review.Review values and writes them via UpsertReviews

package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/2389/reviewfeed/internal/review"
)

// Fixture is the on-disk seed format.
//
//	[[review]]
//	title = "Past Lives"
//	byline = "Glenn Kenny"
//	published = "2023-06-01"
//	url = "https://example.com/past-lives"
type Fixture struct {
	Reviews []FixtureReview `toml:"review"`
}

// FixtureReview is one [[review]] table.
type FixtureReview struct {
	Title     string `toml:"title"`
	Byline    string `toml:"byline"`
	Headline  string `toml:"headline"`
	Summary   string `toml:"summary"`
	Published string `toml:"published"`
	URL       string `toml:"url"`
	LinkText  string `toml:"link_text"`
}

// LoadFixture reads and validates a TOML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(string(data))
}

// ParseFixture decodes fixture TOML from a string.
func ParseFixture(data string) (*Fixture, error) {
	var f Fixture
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing fixture: unknown key %q", undecoded[0].String())
	}

	var errs []error
	for i, r := range f.Reviews {
		if r.Title == "" {
			errs = append(errs, fmt.Errorf("review %d: title is required", i))
		}
		if r.Byline == "" {
			errs = append(errs, fmt.Errorf("review %d: byline is required", i))
		}
		if r.URL == "" {
			errs = append(errs, fmt.Errorf("review %d: url is required", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &f, nil
}

// ToReviews converts fixture entries into catalog reviews.
func (f *Fixture) ToReviews() []review.Review {
	out := make([]review.Review, 0, len(f.Reviews))
	for _, r := range f.Reviews {
		headline := r.Headline
		if headline == "" {
			headline = fmt.Sprintf("'%s' Review", r.Title)
		}
		linkText := r.LinkText
		if linkText == "" {
			linkText = fmt.Sprintf("Read the New York Times Review of %s", r.Title)
		}
		out = append(out, review.Review{
			DisplayTitle:    r.Title,
			Byline:          r.Byline,
			Headline:        headline,
			SummaryShort:    r.Summary,
			PublicationDate: r.Published,
			Link: review.Link{
				Type:              "article",
				URL:               r.URL,
				SuggestedLinkText: linkText,
			},
		})
	}
	return out
}

// Seed loads the fixture at path into s. Returns the number of reviews written.
func Seed(ctx context.Context, s Store, path string) (int, error) {
	f, err := LoadFixture(path)
	if err != nil {
		return 0, err
	}
	return s.UpsertReviews(ctx, f.ToReviews())
}
