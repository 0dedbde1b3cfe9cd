package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestSearch_EmptyQueryRejected(t *testing.T) {
	c := NewClient("http://example.invalid", "SIGLIP_COLLECTION", nil)
	_, err := c.Search(context.Background(), Query{Text: "   "})
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
}

func TestSearch_DecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "cat" {
			t.Errorf("query param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"frame_results": [{"path": "/a/1.jpg", "score": 0.9}],
			"video_results": [{
				"video_id": "g1",
				"video_score": 0.8,
				"frames": [{"path": "/a/1.jpg"}],
				"all_frames": ["/a/1.jpg", "/a/2.jpg"]
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "SIGLIP_COLLECTION", nil)
	res, err := c.Search(context.Background(), Query{Text: "cat", K: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.FrameResults) != 1 || res.FrameResults[0].Path != "/a/1.jpg" {
		t.Fatalf("bad frame results: %+v", res.FrameResults)
	}
	if len(res.VideoResults) != 1 || len(res.VideoResults[0].AllFrames) != 2 {
		t.Fatalf("bad video results: %+v", res.VideoResults)
	}
}

func TestSearch_ServerErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "SIGLIP_COLLECTION", nil)
	_, err := c.Search(context.Background(), Query{Text: "cat"})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", fe.Status)
	}
}

func TestSearch_TransportFailureIsFetchError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "SIGLIP_COLLECTION", nil)
	_, err := c.Search(context.Background(), Query{Text: "cat"})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != 0 {
		t.Fatalf("transport failure should carry no status, got %d", fe.Status)
	}
}

func TestURL_OptionalFiltersOmittedWhenEmpty(t *testing.T) {
	c := NewClient("http://h", "SIGLIP_COLLECTION", nil)

	u, err := url.Parse(c.URL(Query{Text: "cat", K: 10}))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if _, ok := q["colors"]; ok {
		t.Fatal("colors must be absent, not empty")
	}
	if _, ok := q["ocr"]; ok {
		t.Fatal("ocr must be absent, not empty")
	}
	if got := q.Get("mode"); got != "SIGLIP_COLLECTION" {
		t.Fatalf("mode = %q", got)
	}
	if got := q.Get("k"); got != "10" {
		t.Fatalf("k = %q", got)
	}

	u, err = url.Parse(c.URL(Query{Text: "cat", Colors: "red blue", OCR: "stop"}))
	if err != nil {
		t.Fatal(err)
	}
	q = u.Query()
	if got := q.Get("colors"); got != "red blue" {
		t.Fatalf("colors = %q", got)
	}
	if got := q.Get("ocr"); got != "stop" {
		t.Fatalf("ocr = %q", got)
	}
	if got := q.Get("k"); got != "100" {
		t.Fatalf("default k = %q", got)
	}
}
