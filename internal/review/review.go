// ABOUTME: Review, Link, and Page value types returned by the remote search API
// ABOUTME: Review.Key provides the stable identifier used as a display list key

package review

// Link is the followable link attached to a review.
type Link struct {
	Type              string `json:"type,omitempty"`
	URL               string `json:"url"`
	SuggestedLinkText string `json:"suggested_link_text,omitempty"`
}

// Review is a single search result.
type Review struct {
	DisplayTitle    string `json:"display_title"`
	Byline          string `json:"byline"`
	Headline        string `json:"headline,omitempty"`
	SummaryShort    string `json:"summary_short,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	Link            Link   `json:"link"`
}

// Key returns the stable identifier for the review. The link URL is preferred;
// reviews without one fall back to the display title.
func (r Review) Key() string {
	if r.Link.URL != "" {
		return r.Link.URL
	}
	return r.DisplayTitle
}

// Page is one page of search results.
type Page struct {
	Items   []Review
	HasMore bool
}
