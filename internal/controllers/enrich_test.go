package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/services/tmdb"
)

// fakeCatalog is an in-memory CatalogClient double. It counts calls and can
// fail specific ids, and tracks how many detail fetches are in flight at once.
type fakeCatalog struct {
	mu          sync.Mutex
	detailCalls map[int64]int
	inFlight    int
	maxInFlight int
	delay       time.Duration

	failDetails map[int64]error
	failCredits bool
	emptyCrew   bool

	searchPage   *tmdb.ResultPage
	discoverPage *tmdb.ResultPage
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		detailCalls: make(map[int64]int),
		failDetails: make(map[int64]error),
	}
}

func (f *fakeCatalog) SearchMovies(ctx context.Context, query string) (*tmdb.ResultPage, error) {
	if f.searchPage == nil {
		return &tmdb.ResultPage{Page: 1}, nil
	}
	return f.searchPage, nil
}

func (f *fakeCatalog) GetDiscoverMovies(ctx context.Context) (*tmdb.ResultPage, error) {
	if f.discoverPage == nil {
		return &tmdb.ResultPage{Page: 1}, nil
	}
	return f.discoverPage, nil
}

func (f *fakeCatalog) GetMovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.mu.Lock()
	f.detailCalls[id]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.delay
	failErr := f.failDetails[id]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if failErr != nil {
		return nil, failErr
	}
	return &tmdb.MovieDetails{
		ID:          id,
		Title:       fmt.Sprintf("Movie %d", id),
		ReleaseDate: "2010-07-15",
		Runtime:     120,
		Popularity:  50,
		Genres:      []tmdb.Genre{{ID: 28, Name: "Action"}},
		ProductionCompanies: []tmdb.ProductionCompany{
			{ID: 923, Name: "Legendary Pictures"},
		},
	}, nil
}

func (f *fakeCatalog) GetMovieCredits(ctx context.Context, id int64) (*tmdb.Credits, error) {
	f.mu.Lock()
	failCredits := f.failCredits
	emptyCrew := f.emptyCrew
	f.mu.Unlock()

	if failCredits {
		return nil, fmt.Errorf("credits unavailable: %w", tmdb.ErrUpstream)
	}
	credits := &tmdb.Credits{
		ID: id,
		Cast: []tmdb.Cast{
			{ID: 6193, Name: "Leonardo DiCaprio", Character: "Cobb", Order: 0},
			{ID: 24045, Name: "Joseph Gordon-Levitt", Character: "Arthur", Order: 1},
		},
	}
	if !emptyCrew {
		credits.Crew = []tmdb.Crew{
			{ID: 525, Name: "Christopher Nolan", Department: "Directing", Job: "Director"},
			{ID: 525, Name: "Christopher Nolan", Department: "Writing", Job: "Screenplay"},
			{ID: 947, Name: "Hans Zimmer", Department: "Sound", Job: "Original Music Composer"},
		}
	}
	return credits, nil
}

func (f *fakeCatalog) GetMovieRecommendations(ctx context.Context, id int64) (*tmdb.ResultPage, error) {
	return &tmdb.ResultPage{
		Page: 1,
		Results: []tmdb.MovieResult{
			{ID: id + 1, Title: fmt.Sprintf("Like movie %d", id)},
		},
	}, nil
}

func (f *fakeCatalog) detailCallCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls[id]
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testDatabase(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testEnrich(t *testing.T) (*EnrichController, *fakeCatalog, *models.Database) {
	t.Helper()
	db := testDatabase(t)
	catalog := newFakeCatalog()
	return NewEnrichController(db, catalog, db, testLogger()), catalog, db
}

func TestGetMovieCachesOnFirstRead(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	first, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("First GetMovie failed: %v", err)
	}
	if first.FromCache {
		t.Error("First read should not come from cache")
	}
	if first.Title != "Movie 27205" {
		t.Errorf("Title mismatch: %q", first.Title)
	}
	if len(first.Cast) != 2 || len(first.Crew) != 3 {
		t.Errorf("Expected full credits, got %d cast / %d crew", len(first.Cast), len(first.Crew))
	}
	if first.Director == nil || first.Director.Name != "Christopher Nolan" {
		t.Errorf("Director mismatch: %+v", first.Director)
	}
	if len(first.Writers) != 1 || first.Writers[0].Job != "Screenplay" {
		t.Errorf("Writers mismatch: %+v", first.Writers)
	}
	if len(first.Recommendations) != 1 {
		t.Errorf("Expected 1 recommendation, got %d", len(first.Recommendations))
	}

	second, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("Second GetMovie failed: %v", err)
	}
	if !second.FromCache {
		t.Error("Second read should come from cache")
	}
	if catalog.detailCallCount(27205) != 1 {
		t.Errorf("Cache hit should not refetch details, saw %d calls", catalog.detailCallCount(27205))
	}

	if second.Title != first.Title || second.Runtime != first.Runtime {
		t.Errorf("Cached core fields differ: %+v vs %+v", second.Movie, first.Movie)
	}
	if len(second.Genres) != 1 || second.Genres[0].Name != "Action" {
		t.Errorf("Cached genres mismatch: %+v", second.Genres)
	}
	if second.Director == nil || second.Director.Name != "Christopher Nolan" {
		t.Errorf("Cached director mismatch: %+v", second.Director)
	}
}

func TestGetMovieIncompleteCacheRefetches(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	catalog.emptyCrew = true

	first, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("First GetMovie failed: %v", err)
	}
	if first.FromCache {
		t.Error("First read should not come from cache")
	}

	// Crew is still missing, so the cached record does not count as a hit
	second, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("Second GetMovie failed: %v", err)
	}
	if second.FromCache {
		t.Error("Incomplete cache record must not be served as a hit")
	}
	if catalog.detailCallCount(27205) != 2 {
		t.Errorf("Expected a refetch, saw %d detail calls", catalog.detailCallCount(27205))
	}

	// Once the crew arrives the cache completes and serves hits again
	catalog.mu.Lock()
	catalog.emptyCrew = false
	catalog.mu.Unlock()

	if _, err := ctrl.GetMovie(ctx, 27205, ""); err != nil {
		t.Fatalf("Third GetMovie failed: %v", err)
	}
	fourth, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("Fourth GetMovie failed: %v", err)
	}
	if !fourth.FromCache {
		t.Error("Completed record should be served from cache")
	}
}

func TestGetMovieCreditsFailureDegrades(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	catalog.failCredits = true

	movie, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("Credits failure should not fail the enrichment: %v", err)
	}
	if len(movie.Cast) != 0 || len(movie.Crew) != 0 {
		t.Errorf("Expected empty credits, got %d cast / %d crew", len(movie.Cast), len(movie.Crew))
	}
	if movie.Title != "Movie 27205" {
		t.Errorf("Core fields should survive a credits failure, got %q", movie.Title)
	}
}

func TestGetMovieDetailsFailureIsFatal(t *testing.T) {
	ctrl, catalog, db := testEnrich(t)
	ctx := context.Background()

	catalog.failDetails[999] = fmt.Errorf("movie gone: %w", tmdb.ErrNotFound)

	_, err := ctrl.GetMovie(ctx, 999, "")
	if err == nil {
		t.Fatal("Expected an error when the details fetch fails")
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		t.Errorf("Expected ErrNotFound in the chain, got %v", err)
	}

	cached, err := db.CachedMovie(999)
	if err != nil {
		t.Fatalf("CachedMovie failed: %v", err)
	}
	if cached != nil {
		t.Errorf("Failed enrichment must not leave a cached row, got %+v", cached)
	}
}

func TestGetMoviesBoundsConcurrency(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	catalog.delay = 20 * time.Millisecond

	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	movies, err := ctrl.GetMovies(ctx, ids, "", BatchOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("GetMovies failed: %v", err)
	}
	if len(movies) != len(ids) {
		t.Fatalf("Expected %d movies, got %d", len(ids), len(movies))
	}

	catalog.mu.Lock()
	max := catalog.maxInFlight
	catalog.mu.Unlock()
	if max > 2 {
		t.Errorf("Expected at most 2 concurrent detail fetches, saw %d", max)
	}
}

func TestGetMoviesPreservesOrder(t *testing.T) {
	ctrl, _, _ := testEnrich(t)
	ctx := context.Background()

	ids := []int64{5, 3, 9, 1}
	movies, err := ctrl.GetMovies(ctx, ids, "", BatchOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("GetMovies failed: %v", err)
	}
	for i, movie := range movies {
		if movie.TMDBID != ids[i] {
			t.Errorf("Position %d: expected id %d, got %d", i, ids[i], movie.TMDBID)
		}
	}
}

func TestGetMoviesIgnoreErrorsDropsFailures(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	catalog.failDetails[2] = fmt.Errorf("gone: %w", tmdb.ErrNotFound)

	movies, err := ctrl.GetMovies(ctx, []int64{1, 2, 3}, "", BatchOptions{IgnoreErrors: true})
	if err != nil {
		t.Fatalf("GetMovies with IgnoreErrors failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("Expected failing id dropped, got %d movies", len(movies))
	}
	if movies[0].TMDBID != 1 || movies[1].TMDBID != 3 {
		t.Errorf("Order not preserved after drop: %d, %d", movies[0].TMDBID, movies[1].TMDBID)
	}
}

func TestGetMoviesFirstErrorAborts(t *testing.T) {
	ctrl, catalog, _ := testEnrich(t)
	ctx := context.Background()

	catalog.failDetails[2] = fmt.Errorf("gone: %w", tmdb.ErrNotFound)

	_, err := ctrl.GetMovies(ctx, []int64{1, 2, 3}, "", BatchOptions{})
	if err == nil {
		t.Fatal("Expected the batch to fail without IgnoreErrors")
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		t.Errorf("Expected the movie error to surface, got %v", err)
	}
}

func TestGetMovieMergesPropositionAndVoteFacts(t *testing.T) {
	ctrl, _, db := testEnrich(t)
	ctx := context.Background()

	if err := db.CreateProposition(27205, "alice"); err != nil {
		t.Fatalf("CreateProposition failed: %v", err)
	}
	if err := db.CreateVote(27205, "alice"); err != nil {
		t.Fatalf("CreateVote failed: %v", err)
	}
	if err := db.CreateVote(27205, "bob"); err != nil {
		t.Fatalf("CreateVote failed: %v", err)
	}

	movie, err := ctrl.GetMovie(ctx, 27205, "alice")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if !movie.IsProposed || movie.ProposedBy != "alice" {
		t.Errorf("Proposition facts missing: %+v", movie)
	}
	if movie.ProposedAt == nil {
		t.Error("Expected ProposedAt to be set")
	}
	if !movie.UserHasVoted {
		t.Error("Expected alice's vote to be reflected")
	}
	if movie.CampaignVotes != 2 {
		t.Errorf("Expected 2 campaign votes, got %d", movie.CampaignVotes)
	}

	// Facts are merged fresh even on cache hits
	asBob, err := ctrl.GetMovie(ctx, 27205, "bob")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if !asBob.FromCache {
		t.Error("Second read should come from cache")
	}
	if !asBob.UserHasVoted {
		t.Error("Expected bob's vote to be reflected")
	}

	anonymous, err := ctrl.GetMovie(ctx, 27205, "")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if anonymous.UserHasVoted {
		t.Error("Anonymous viewer never has a vote")
	}
	if !anonymous.IsProposed || anonymous.CampaignVotes != 2 {
		t.Errorf("Shared facts should not depend on the viewer: %+v", anonymous)
	}
}
