package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/reviewfeed/internal/session"
)

// fakeIntents records intents and returns canned errors.
type fakeIntents struct {
	calls    []string
	err      error
	snapshot session.Snapshot
}

func (f *fakeIntents) RequestInitialLoad() error {
	f.calls = append(f.calls, "load")
	return f.err
}

func (f *fakeIntents) RequestLoadMore() error {
	f.calls = append(f.calls, "more")
	return f.err
}

func (f *fakeIntents) SetReviewerFilter(reviewer string) error {
	f.calls = append(f.calls, "reviewer:"+reviewer)
	return f.err
}

func (f *fakeIntents) Snapshot() session.Snapshot { return f.snapshot }

func TestExecute_Commands(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/more", []string{"more"}},
		{"/reload", []string{"load"}},
		{"/reviewer glenn   kenny", []string{"reviewer:Glenn Kenny"}},
		{"/reviewer 2", []string{"reviewer:Jeannette Catsoulis"}},
		{"/reviewer", []string{"reviewer:"}},
		{"  amy nicholson ", []string{"reviewer:Amy Nicholson"}},
		{"", nil},
		{"/help", nil},
		{"/reviewers", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := &fakeIntents{}
			err := execute(f, newView(&bytes.Buffer{}), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.calls)
		})
	}
}

func TestExecute_Quit(t *testing.T) {
	for _, input := range []string{"/quit", "/exit", "/q"} {
		err := execute(&fakeIntents{}, newView(&bytes.Buffer{}), input)
		assert.ErrorIs(t, err, errQuit, input)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	err := execute(&fakeIntents{}, newView(&bytes.Buffer{}), "/frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command /frobnicate")
}

func TestExecute_ExplainsIllegalTransitions(t *testing.T) {
	illegal := &session.IllegalTransitionError{Event: "fetchMoreReviewsStart", State: session.StatusFetchingReviews}

	f := &fakeIntents{err: illegal}
	f.snapshot.Status = session.StatusFetchingReviews
	err := execute(f, newView(&bytes.Buffer{}), "/more")
	assert.EqualError(t, err, "still loading, try again in a moment")

	f.snapshot.Status = session.StatusHasFetchedAllReviews
	err = execute(f, newView(&bytes.Buffer{}), "/more")
	assert.EqualError(t, err, "all reviews are already shown")

	f.err = errors.New("boom")
	err = execute(f, newView(&bytes.Buffer{}), "/more")
	assert.EqualError(t, err, "boom")
}

func TestPrintReviewers_MarksCurrent(t *testing.T) {
	var buf bytes.Buffer
	printReviewers(newView(&buf), "amy nicholson")

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Amy Nicholson") {
			assert.Contains(t, line, "* 3. Amy Nicholson")
			return
		}
	}
	t.Fatal("Amy Nicholson not listed")
}

func TestResolveReviewer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4", "Devika Girish"},
		{"glenn   kenny", "Glenn Kenny"},
		{"  amy nicholson ", "Amy Nicholson"},
		{"A.O. Scott", "A.O. Scott"},
		{"Martin McDonagh", "Martin McDonagh"},
		{"martin McDonagh", "Martin McDonagh"},
		{"MANOHLA dargis", "MANOHLA Dargis"},
		{"   ", ""},
		{"", ""},
		// Out-of-range numbers are treated as text.
		{"9", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveReviewer(tt.in))
		})
	}
}
