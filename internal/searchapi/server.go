// ABOUTME: HTTP handler emulating the reviews search endpoint over the SQLite catalog
// ABOUTME: Handles api-key checks, query parsing, optional latency and JSON envelopes

package searchapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/2389/reviewfeed/internal/review"
	"github.com/2389/reviewfeed/internal/store"
)

// Path is the route the search endpoint is served on.
const Path = "/svc/movies/v2/reviews/search.json"

const defaultPageSize = 20

// searchResponse is the success envelope.
type searchResponse struct {
	Status     string          `json:"status"`
	Copyright  string          `json:"copyright"`
	HasMore    bool            `json:"has_more"`
	NumResults int             `json:"num_results"`
	Results    []review.Review `json:"results"`
}

type faultResponse struct {
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
}

// Server answers search requests from a review catalog.
type Server struct {
	store    store.Store
	apiKey   string
	pageSize int
	latency  time.Duration
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires every request to carry the given api-key.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithPageSize sets the number of results per page.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server over st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:    st,
		pageSize: defaultPageSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "searchapi")
	return s
}

// Handler returns the HTTP routes for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	if s.apiKey != "" && subtle.ConstantTimeCompare([]byte(q.Get(review.KeyAPIKey)), []byte(s.apiKey)) != 1 {
		sendFault(w, http.StatusUnauthorized, "Invalid ApiKey")
		return
	}

	params := store.SearchParams{
		Reviewer: q.Get(review.KeyReviewer),
		Query:    q.Get(review.KeyQuery),
		Order:    q.Get(review.KeyOrder),
		Limit:    s.pageSize,
	}
	if raw := q.Get(review.KeyOffset); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			sendJSONError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		params.Offset = offset
	}

	if err := s.wait(r.Context()); err != nil {
		s.logger.Debug("request abandoned during latency", "error", err)
		return
	}

	result, err := s.store.Search(r.Context(), params)
	if errors.Is(err, store.ErrInvalidOrder) {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("search failed", "error", err, "params", params)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Debug("search served",
		"reviewer", params.Reviewer,
		"offset", params.Offset,
		"results", len(result.Reviews),
		"has_more", result.HasMore,
	)

	resp := searchResponse{
		Status:     "OK",
		Copyright:  "Fixture data for local development.",
		HasMore:    result.HasMore,
		NumResults: len(result.Reviews),
		Results:    result.Reviews,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("writing response", "error", err)
	}
}

// handleHealth returns 200 OK when the catalog is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// wait sleeps for the configured latency or until ctx is done.
func (s *Server) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "error": message})
}

func sendFault(w http.ResponseWriter, status int, message string) {
	var resp faultResponse
	resp.Fault.FaultString = message
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
