// ABOUTME: Incremental renderer turning session snapshots into terminal output
// ABOUTME: Prints new reviews as they arrive plus loading, load-more and error lines

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/2389/reviewfeed/internal/review"
	"github.com/2389/reviewfeed/internal/session"
)

const summaryWidth = 100

// view remembers what it has already printed so each snapshot only adds
// what changed.
type view struct {
	mu  sync.Mutex
	out io.Writer

	rendered bool
	filter   string
	status   session.Status
	shown    int

	title, dim, accent, warn, fail *color.Color
}

func newView(out io.Writer) *view {
	return &view{
		out:    out,
		title:  color.New(color.Bold),
		dim:    color.New(color.FgHiBlack),
		accent: color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
	}
}

// printf writes free-form output, serialized with rendering.
func (v *view) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *view) render(s session.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	filter := s.Filter.Identity(nil)
	// A first-page request replaces the list even when the old rows were
	// kept on screen while it ran.
	replaced := v.status == session.StatusFetchingReviews &&
		s.Status != session.StatusFetchingReviews && v.shown > 0
	if !v.rendered || filter != v.filter || len(s.Items) < v.shown || replaced {
		v.header(s)
		v.filter = filter
		v.shown = 0
	}

	for i := v.shown; i < len(s.Items); i++ {
		v.item(i+1, s.Items[i])
	}
	grew := len(s.Items) > v.shown
	v.shown = len(s.Items)

	if v.rendered && !grew && s.Status == v.status {
		return
	}
	v.rendered = true
	v.status = s.Status
	v.statusLine(s)
}

func (v *view) header(s session.Snapshot) {
	who := "all critics"
	if r := s.Reviewer(); r != "" {
		who = r
	}
	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, v.title.Sprintf("Reviews by %s", who))
	if q := s.Filter[review.KeyQuery]; q != "" {
		fmt.Fprintln(v.out, v.dim.Sprintf("matching %q", q))
	}
}

func (v *view) item(n int, r review.Review) {
	line := fmt.Sprintf("%3d. %s", n, v.title.Sprint(r.DisplayTitle))
	if r.PublicationDate != "" {
		line += v.dim.Sprintf(" (%s)", r.PublicationDate)
	}
	if r.Byline != "" {
		line += " " + v.accent.Sprint(r.Byline)
	}
	fmt.Fprintln(v.out, line)
	if r.SummaryShort != "" {
		fmt.Fprintln(v.out, "     "+v.dim.Sprint(truncate(r.SummaryShort, summaryWidth)))
	}
}

func (v *view) statusLine(s session.Snapshot) {
	switch {
	case s.Failed:
		msg := "request failed"
		if s.Err != nil {
			msg = s.Err.Error()
		}
		fmt.Fprintln(v.out, v.fail.Sprint("[error] ")+msg)
		fmt.Fprintln(v.out, v.dim.Sprint("/reload to try again"))
	case s.Loading:
		if s.Status == session.StatusFetchingMoreReviews {
			fmt.Fprintln(v.out, v.warn.Sprint("loading more..."))
		} else {
			fmt.Fprintln(v.out, v.warn.Sprint("loading..."))
		}
	case s.CanLoadMore:
		fmt.Fprintln(v.out, v.dim.Sprintf("%d shown, /more to load more", len(s.Items)))
	case s.Status == session.StatusHasFetchedAllReviews:
		if len(s.Items) == 0 {
			fmt.Fprintln(v.out, v.dim.Sprint("no reviews found"))
		} else {
			fmt.Fprintln(v.out, v.dim.Sprintf("all %d reviews shown", len(s.Items)))
		}
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
