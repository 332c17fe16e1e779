package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testClient(serverURL string, quota int) *Client {
	return &Client{
		baseURL:    serverURL,
		apiToken:   "test-token",
		limiter:    NewRateLimiter(quota, time.Minute),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     testLogger(),
	}
}

func TestSearchMoviesParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "inception" {
			t.Errorf("Expected query 'inception', got %q", got)
		}
		if got := r.URL.Query().Get("include_adult"); got != "false" {
			t.Errorf("Expected include_adult=false, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 27205, "title": "Inception", "popularity": 83.5, "vote_average": 8.4, "vote_count": 34000},
				{"id": 64956, "title": "Inception: The Cobol Job", "popularity": 10.1}
			],
			"total_pages": 1,
			"total_results": 2
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 10)

	page, err := client.SearchMovies(context.Background(), "inception")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("Expected page 1, got %d", page.Page)
	}
	if len(page.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(page.Results))
	}
	if page.Results[0].ID != 27205 || page.Results[0].Title != "Inception" {
		t.Errorf("First result mismatch: %+v", page.Results[0])
	}
}

func TestGetMovieDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL, 10)

	_, err := client.GetMovieDetails(context.Background(), 999999999)
	if err == nil {
		t.Fatal("Expected an error for 404 response")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetMovieDetailsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL, 10)

	_, err := client.GetMovieDetails(context.Background(), 27205)
	if err == nil {
		t.Fatal("Expected an error for 500 response")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}
}

func TestGetMovieDetailsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": `))
	}))
	defer server.Close()

	client := testClient(server.URL, 10)

	_, err := client.GetMovieDetails(context.Background(), 27205)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream for malformed body, got %v", err)
	}
}

func TestRateLimitedCallMakesNoRequest(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(`{"id": 27205, "title": "Inception"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 1)

	if _, err := client.GetMovieDetails(context.Background(), 27205); err != nil {
		t.Fatalf("First call should succeed, got %v", err)
	}

	_, err := client.GetMovieDetails(context.Background(), 27205)
	if !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("Second call should be rate limited, got %v", err)
	}

	if got := atomic.LoadInt64(&requests); got != 1 {
		t.Errorf("Rate limited call should not reach the network, server saw %d requests", got)
	}
}

func TestRateLimitKeysPerMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "title": "A"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 1)

	if _, err := client.GetMovieDetails(context.Background(), 100); err != nil {
		t.Fatalf("Details for movie 100 should succeed, got %v", err)
	}
	// A different movie id is a different rate-limit key
	if _, err := client.GetMovieDetails(context.Background(), 200); err != nil {
		t.Errorf("Details for movie 200 should succeed, got %v", err)
	}
}

func TestGetDiscoverMoviesSharedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 1, "results": [{"id": 5, "title": "Discovered"}], "total_pages": 1, "total_results": 1}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 1)

	page, err := client.GetDiscoverMovies(context.Background())
	if err != nil {
		t.Fatalf("First discover call should succeed, got %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 5 {
		t.Errorf("Discover results mismatch: %+v", page.Results)
	}

	if _, err := client.GetDiscoverMovies(context.Background()); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("All discover calls share one key, second call should be rejected, got %v", err)
	}
}

func TestGetMovieCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205/credits" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 27205,
			"cast": [{"id": 6193, "name": "Leonardo DiCaprio", "character": "Cobb", "order": 0}],
			"crew": [{"id": 525, "name": "Christopher Nolan", "department": "Directing", "job": "Director"}]
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 10)

	credits, err := client.GetMovieCredits(context.Background(), 27205)
	if err != nil {
		t.Fatalf("GetMovieCredits failed: %v", err)
	}
	if len(credits.Cast) != 1 || credits.Cast[0].Character != "Cobb" {
		t.Errorf("Cast mismatch: %+v", credits.Cast)
	}
	if len(credits.Crew) != 1 || credits.Crew[0].Job != "Director" {
		t.Errorf("Crew mismatch: %+v", credits.Crew)
	}
}
