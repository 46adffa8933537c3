// ABOUTME: HTTP client for the remote review search API
// ABOUTME: FetchPage performs one GET bound to a Handle and normalizes every failure

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/2389/reviewfeed/internal/pagecache"
	"github.com/2389/reviewfeed/internal/review"
)

// DefaultBaseURL is the production search endpoint.
const DefaultBaseURL = "https://api.nytimes.com/svc/movies/v2/reviews/search.json"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4096

// searchResponse is the JSON body returned by the search endpoint.
type searchResponse struct {
	Status     string          `json:"status"`
	Copyright  string          `json:"copyright,omitempty"`
	HasMore    bool            `json:"has_more"`
	NumResults int             `json:"num_results"`
	Results    []review.Review `json:"results"`
}

// errorResponse covers the error shapes the API and the dev server return.
type errorResponse struct {
	Error string `json:"error"`
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
}

// Client fetches pages from the search API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	cache   *pagecache.Cache
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Nil keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded. It applies
// to whichever HTTP client the options end up selecting.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache answers repeated queries from cache.
func WithCache(cache *pagecache.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger. Nil keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "gateway")
		}
	}
}

// NewClient creates a client for the search endpoint at baseURL. An empty
// baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  slog.Default().With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// FetchPage performs one search request bound to h. It never returns without
// a handle on the Outcome: a nil h is replaced by a fresh, already cancelled
// handle and reported as ReasonInvalid.
func (c *Client) FetchPage(h *Handle, q Query) Outcome {
	if h == nil {
		h = NewHandle(context.Background())
		h.Cancel()
		return fail(h, &Failure{Reason: ReasonInvalid, Message: "no request handle"})
	}

	logger := c.logger.With("request_id", h.RequestID(), "epoch", h.Epoch())

	if h.Canceled() {
		return fail(h, canceledFailure(h.Context().Err()))
	}

	if c.cache != nil {
		if page, ok := c.cache.Get(q.Key()); ok {
			logger.Debug("page served from cache", "query", q.Key())
			return Outcome{Handle: h, Page: page}
		}
	}

	logger.Debug("fetching page", "filter", q.Filter.String(), "offset", offsetAttr(q.Offset))

	page, failure := c.do(h.Context(), q)
	if failure != nil {
		if failure.Reason == ReasonCanceled {
			logger.Debug("fetch canceled")
		} else {
			logger.Warn("fetch failed", "reason", failure.Reason, "error", failure.Error())
		}
		return fail(h, failure)
	}

	if c.cache != nil {
		c.cache.Put(q.Key(), page)
	}

	logger.Debug("page fetched", "results", len(page.Items), "has_more", page.HasMore)
	return Outcome{Handle: h, Page: page}
}

// do performs the HTTP round trip and decodes the body.
func (c *Client) do(ctx context.Context, q Query) (review.Page, *Failure) {
	url := c.baseURL
	if encoded := q.Filter.Values(q.Offset).Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return review.Page{}, &Failure{Reason: ReasonInvalid, Message: "creating request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return review.Page{}, canceledFailure(ctx.Err())
		}
		return review.Page{}, &Failure{Reason: ReasonNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return review.Page{}, statusFailure(resp)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return review.Page{}, canceledFailure(ctx.Err())
		}
		return review.Page{}, &Failure{Reason: ReasonDecode, Message: "parsing response", Err: err}
	}

	return review.Page{Items: body.Results, HasMore: body.HasMore}, nil
}

// statusFailure builds a Failure from a non-2xx response, preferring the
// API's own message over the generic status text.
func statusFailure(resp *http.Response) *Failure {
	message := http.StatusText(resp.StatusCode)

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorResponse
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != "":
			message = body.Error
		case body.Fault.FaultString != "":
			message = body.Fault.FaultString
		}
	}

	return &Failure{
		Reason:     ReasonStatus,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

func canceledFailure(err error) *Failure {
	if err == nil {
		err = context.Canceled
	}
	msg := "request canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request deadline exceeded"
	}
	return &Failure{Reason: ReasonCanceled, Message: msg, Err: err}
}

func fail(h *Handle, f *Failure) Outcome {
	return Outcome{Handle: h, Err: f}
}

func offsetAttr(offset *int) string {
	if offset == nil {
		return "none"
	}
	return fmt.Sprint(*offset)
}
