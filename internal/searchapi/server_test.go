// ABOUTME: Tests for the search API handler over a temp-dir SQLite catalog
// ABOUTME: Covers envelopes, paging, api-key enforcement, bad parameters and latency aborts

package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/reviewfeed/internal/review"
	"github.com/2389/reviewfeed/internal/store"
)

func newTestCatalog(t *testing.T, n int, byline string) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reviews := make([]review.Review, n)
	for i := range reviews {
		reviews[i] = review.Review{
			DisplayTitle:    fmt.Sprintf("Film %02d", i),
			Byline:          byline,
			PublicationDate: fmt.Sprintf("2023-02-%02d", i+1),
			Link:            review.Link{Type: "article", URL: fmt.Sprintf("https://example.com/film-%02d", i)},
		}
	}
	_, err = st.UpsertReviews(context.Background(), reviews)
	require.NoError(t, err)
	return st
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSearch(t *testing.T, rec *httptest.ResponseRecorder) searchResponse {
	t.Helper()
	var resp searchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleSearch_FirstPage(t *testing.T) {
	srv := New(newTestCatalog(t, 5, "Glenn Kenny"), WithPageSize(3))

	rec := get(t, srv.Handler(), Path+"?reviewer=Glenn+Kenny")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeSearch(t, rec)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, 3, resp.NumResults)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "Film 04", resp.Results[0].DisplayTitle)
}

func TestHandleSearch_OffsetReachesEnd(t *testing.T) {
	srv := New(newTestCatalog(t, 5, "Glenn Kenny"), WithPageSize(3))

	resp := decodeSearch(t, get(t, srv.Handler(), Path+"?offset=3"))

	assert.Equal(t, 2, resp.NumResults)
	assert.False(t, resp.HasMore)
}

func TestHandleSearch_UnknownReviewerIsEmpty(t *testing.T) {
	srv := New(newTestCatalog(t, 2, "Glenn Kenny"))

	resp := decodeSearch(t, get(t, srv.Handler(), Path+"?reviewer=Nobody"))

	assert.Equal(t, "OK", resp.Status)
	assert.Zero(t, resp.NumResults)
	assert.NotNil(t, resp.Results)
	assert.False(t, resp.HasMore)
}

func TestHandleSearch_BadParameters(t *testing.T) {
	srv := New(newTestCatalog(t, 1, "Glenn Kenny"))

	tests := []struct {
		name  string
		query string
	}{
		{"negative offset", "?offset=-1"},
		{"non-numeric offset", "?offset=ten"},
		{"unknown order", "?order=by-vibes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), Path+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"ERROR"`)
		})
	}
}

func TestHandleSearch_APIKey(t *testing.T) {
	srv := New(newTestCatalog(t, 1, "Glenn Kenny"), WithAPIKey("sekret"))

	rec := get(t, srv.Handler(), Path)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid ApiKey")

	rec = get(t, srv.Handler(), Path+"?api-key=wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(t, srv.Handler(), Path+"?api-key=sekret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleSearch_MethodNotAllowed(t *testing.T) {
	srv := New(newTestCatalog(t, 1, "Glenn Kenny"))

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSearch_LatencyAbortsOnClientCancel(t *testing.T) {
	srv := New(newTestCatalog(t, 1, "Glenn Kenny"), WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, Path, nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.Handler().ServeHTTP(rec, req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client canceled")
	}
	assert.Empty(t, rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	srv := New(newTestCatalog(t, 0, "Glenn Kenny"))

	rec := get(t, srv.Handler(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
