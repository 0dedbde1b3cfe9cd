package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mvhq/frameview/internal/model"
)

// DefaultTopK is substituted when a query carries no positive k.
const DefaultTopK = 100

// QueryError marks user-correctable input problems. The search is rejected
// before any request is issued.
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string { return "invalid query: " + e.Reason }

// ErrEmptyQuery is returned for a blank query text. No wildcard is
// substituted.
var ErrEmptyQuery = &QueryError{Reason: "empty query"}

// FetchError marks a transport failure or a non-2xx backend response.
type FetchError struct {
	Status int // zero on transport failure
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("search backend returned status %d", e.Status)
	}
	return "search request failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Query carries one search request. Colors and OCR are optional filters and
// are omitted from the request URL entirely when empty, so the backend can
// distinguish absence from an empty value.
type Query struct {
	Text   string
	K      int
	Mode   string
	Colors string
	OCR    string
}

// Client issues queries against the retrieval backend. Requests are not
// deduplicated or cancelled here; staleness is handled by the caller when
// installing results.
type Client struct {
	origin string
	mode   string // default collection used when Query.Mode is empty
	httpc  *http.Client
	log    *slog.Logger
}

// NewClient creates a search client for a backend origin. defaultMode names
// the collection queried when the caller does not pick one.
func NewClient(origin, defaultMode string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		mode:   defaultMode,
		httpc:  &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// URL builds the backend request URL for a query.
func (c *Client) URL(q Query) string {
	k := q.K
	if k <= 0 {
		k = DefaultTopK
	}
	mode := q.Mode
	if mode == "" {
		mode = c.mode
	}
	v := url.Values{}
	v.Set("query", q.Text)
	v.Set("k", strconv.Itoa(k))
	v.Set("mode", mode)
	if q.Colors != "" {
		v.Set("colors", q.Colors)
	}
	if q.OCR != "" {
		v.Set("ocr", q.OCR)
	}
	return c.origin + "/search?" + v.Encode()
}

// Search issues one query and decodes the structured result set.
func (c *Client) Search(ctx context.Context, q Query) (*model.SearchResult, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, ErrEmptyQuery
	}

	reqURL := c.URL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("search failed", "status", resp.StatusCode, "url", reqURL)
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var out model.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode response: %w", err)}
	}
	c.log.Debug("search complete",
		"query", q.Text,
		"frames", len(out.FrameResults),
		"videos", len(out.VideoResults),
		"took", time.Since(start))
	return &out, nil
}
