// ABOUTME: Slash-command handling for the reviews TUI
// ABOUTME: Maps typed commands onto session intents and formats reviewer names

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/2389/reviewfeed/internal/session"
)

// knownReviewers backs the /reviewers picker.
var knownReviewers = []string{
	"Glenn Kenny",
	"Jeannette Catsoulis",
	"Amy Nicholson",
	"Devika Girish",
}

// intents is the part of session.Machine the command loop drives.
type intents interface {
	RequestInitialLoad() error
	RequestLoadMore() error
	SetReviewerFilter(reviewer string) error
	Snapshot() session.Snapshot
}

var errQuit = errors.New("quit")

// execute runs one line of input. It returns errQuit when the user asks to leave.
func execute(m intents, v *view, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help":
		printHelp(v)
		return nil
	case "/more", "/m":
		return explain(m.RequestLoadMore(), m.Snapshot())
	case "/reload", "/r":
		return explain(m.RequestInitialLoad(), m.Snapshot())
	case "/reviewers":
		printReviewers(v, m.Snapshot().Reviewer())
		return nil
	case "/reviewer":
		return explain(m.SetReviewerFilter(resolveReviewer(arg)), m.Snapshot())
	case "/status":
		s := m.Snapshot()
		v.printf("%s, %d reviews, filter %q\n", s.Status, len(s.Items), s.Filter.String())
		return nil
	}

	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("unknown command %s (try /help)", name)
	}
	// Bare text is a reviewer name.
	return explain(m.SetReviewerFilter(resolveReviewer(input)), m.Snapshot())
}

// resolveReviewer accepts a picker number or a free-text name. Whitespace is
// collapsed and words typed entirely in lower case are title-cased; any word
// with a capital is kept as typed. An empty argument clears the reviewer.
func resolveReviewer(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(knownReviewers) {
		return knownReviewers[n-1]
	}
	words := strings.Fields(arg)
	lower := cases.Lower(language.English)
	title := cases.Title(language.English)
	for i, w := range words {
		if lower.String(w) == w {
			words[i] = title.String(w)
		}
	}
	return strings.Join(words, " ")
}

// explain turns a rejected intent into a message the user can act on.
func explain(err error, s session.Snapshot) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrIllegalTransition) {
		switch {
		case s.Status.Fetching():
			return fmt.Errorf("still loading, try again in a moment")
		case s.Status == session.StatusHasFetchedAllReviews:
			return fmt.Errorf("all reviews are already shown")
		case s.Status == session.StatusFailed:
			return fmt.Errorf("last request failed, use /reload")
		}
	}
	return err
}

func printReviewers(v *view, current string) {
	v.printf("Reviewers:\n")
	for i, name := range knownReviewers {
		marker := " "
		if strings.EqualFold(name, current) {
			marker = "*"
		}
		v.printf(" %s %d. %s\n", marker, i+1, name)
	}
	v.printf("Use /reviewer <number|name>, or /reviewer alone for all critics.\n")
}

func printHelp(v *view) {
	v.printf("Commands:\n")
	v.printf("  /more              Load the next page\n")
	v.printf("  /reviewer <name>   Show reviews by one critic (number from /reviewers works too)\n")
	v.printf("  /reviewer          Clear the reviewer, show all critics\n")
	v.printf("  /reviewers         List known reviewers\n")
	v.printf("  /reload            Fetch the first page again\n")
	v.printf("  /status            Show the session state\n")
	v.printf("  /help              Show this help\n")
	v.printf("  /quit              Exit\n")
	v.printf("Any other text is treated as a reviewer name.\n")
}
