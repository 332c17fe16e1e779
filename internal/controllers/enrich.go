package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/services/tmdb"
)

// CatalogClient is the slice of the TMDB client the enrichment engine needs.
// Satisfied by *tmdb.Client; tests substitute counting doubles.
type CatalogClient interface {
	SearchMovies(ctx context.Context, query string) (*tmdb.ResultPage, error)
	GetMovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
	GetMovieCredits(ctx context.Context, id int64) (*tmdb.Credits, error)
	GetMovieRecommendations(ctx context.Context, id int64) (*tmdb.ResultPage, error)
	GetDiscoverMovies(ctx context.Context) (*tmdb.ResultPage, error)
}

// PropositionVoteFacts supplies the live proposition/vote state merged into
// every enhanced movie. These change independently of catalog metadata, so
// they are looked up fresh on every read regardless of cache state.
// Satisfied by *models.Database.
type PropositionVoteFacts interface {
	ActivePropositionForMovie(movieID int64) (*models.Proposition, error)
	HasVoted(movieID int64, userID string) (bool, error)
	VoteCountForMovie(movieID int64) (int64, error)
}

// BatchOptions controls GetMovies fan-out
type BatchOptions struct {
	Concurrency  int  // parallel enrichments per chunk (default 4)
	IgnoreErrors bool // drop failed ids instead of aborting the batch
}

const defaultConcurrency = 4

// EnrichController turns a bare TMDB id into a fully denormalized enhanced
// movie, reading from the local cache when it holds a complete record and
// falling back to the TMDB API otherwise
type EnrichController struct {
	db          *models.Database
	catalog     CatalogClient
	facts       PropositionVoteFacts
	logger      *logrus.Logger
	tracer      trace.Tracer
	concurrency int
}

// NewEnrichController creates a new enrichment controller
func NewEnrichController(db *models.Database, catalog CatalogClient, facts PropositionVoteFacts, logger *logrus.Logger) *EnrichController {
	return &EnrichController{
		db:          db,
		catalog:     catalog,
		facts:       facts,
		logger:      logger,
		tracer:      otel.Tracer("cinevote/enrich"),
		concurrency: defaultConcurrency,
	}
}

// SetConcurrency overrides the default batch concurrency for calls that do
// not set BatchOptions.Concurrency explicitly
func (c *EnrichController) SetConcurrency(n int) {
	if n > 0 {
		c.concurrency = n
	}
}

// isCacheComplete is the staleness heuristic: a cached record counts as a
// hit only when both cast and crew are non-empty. An empty list means an
// earlier enrichment only partially persisted and the movie must be
// re-fetched. Metadata changes upstream never trigger a refresh.
func isCacheComplete(movie *models.EnhancedMovie) bool {
	return movie != nil && len(movie.Cast) > 0 && len(movie.Crew) > 0
}

// GetMovie returns the enhanced movie for a TMDB id. Only the initial
// details fetch on a cache miss is fatal; every persistence side effect is
// best effort, so the returned movie carries whatever sub-data succeeded.
func (c *EnrichController) GetMovie(ctx context.Context, tmdbID int64, userID string) (*models.EnhancedMovie, error) {
	ctx, span := c.tracer.Start(ctx, "GetMovie",
		trace.WithAttributes(attribute.Int64("tmdb.id", tmdbID)))
	defer span.End()

	cached, err := c.db.CachedMovie(tmdbID)
	if err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Warn("Cache read failed, falling back to API")
	}

	if isCacheComplete(cached) {
		cacheHits.Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		c.mergeFacts(cached, userID)
		cached.FromCache = true
		return cached, nil
	}

	cacheMisses.Inc()
	span.SetAttributes(attribute.Bool("cache.hit", false))

	details, err := c.catalog.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		enrichFailures.Inc()
		return nil, fmt.Errorf("failed to enrich movie %d: %w", tmdbID, err)
	}

	now := time.Now()
	movie := movieFromDetails(details, now)

	// The core row goes in first so the join rows have something to
	// reference. Like every write below, a failure is logged and the
	// in-memory result is still returned.
	if err := c.db.UpsertMovie(movie); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to cache movie")
	}

	genres := genresFromTMDB(details.Genres)
	if err := c.db.StoreGenres(tmdbID, genres); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to store genres")
	}

	companies := companiesFromTMDB(details.ProductionCompanies)
	if err := c.db.StoreProductionCompanies(tmdbID, companies); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to store production companies")
	}

	// Credits and recommendations are independent; fetch them concurrently.
	// A failed fetch degrades the result instead of failing the call, which
	// also leaves the cache incomplete and forces a refetch next time.
	var (
		cast []models.CastCredit
		crew []models.CrewCredit
		recs []models.Movie
		wg   sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		credits, err := c.catalog.GetMovieCredits(ctx, tmdbID)
		if err != nil {
			c.logger.WithError(err).WithField("tmdb_id", tmdbID).Warn("Failed to fetch credits")
			return
		}
		cast = castFromTMDB(credits.Cast)
		crew = crewFromTMDB(credits.Crew)
	}()
	go func() {
		defer wg.Done()
		page, err := c.catalog.GetMovieRecommendations(ctx, tmdbID)
		if err != nil {
			c.logger.WithError(err).WithField("tmdb_id", tmdbID).Warn("Failed to fetch recommendations")
			return
		}
		recs = moviesFromResults(page.Results, now)
	}()
	wg.Wait()

	if err := c.db.StoreCast(tmdbID, cast); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to store cast")
	}
	if err := c.db.StoreCrew(tmdbID, crew); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to store crew")
	}
	if err := c.db.StoreRecommendations(tmdbID, recs); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", tmdbID).Error("Failed to store recommendations")
	}

	enhanced := &models.EnhancedMovie{
		Movie:               *movie,
		Genres:              genres,
		Cast:                cast,
		Crew:                crew,
		Director:            models.DeriveDirector(crew),
		Writers:             models.DeriveWriters(crew),
		Recommendations:     recs,
		ProductionCompanies: companies,
	}
	c.mergeFacts(enhanced, userID)
	enhanced.FromCache = false

	return enhanced, nil
}

// GetMovies enriches a list of ids in chunks of opts.Concurrency, fully
// settling each chunk before starting the next so that no more than
// Concurrency upstream fetches are ever in flight. With IgnoreErrors a
// failed id is logged and dropped from the result; otherwise the first
// failure aborts the batch. Result order follows input order.
func (c *EnrichController) GetMovies(ctx context.Context, tmdbIDs []int64, userID string, opts BatchOptions) ([]*models.EnhancedMovie, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = c.concurrency
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	enriched := make([]*models.EnhancedMovie, 0, len(tmdbIDs))

	for start := 0; start < len(tmdbIDs); start += concurrency {
		end := start + concurrency
		if end > len(tmdbIDs) {
			end = len(tmdbIDs)
		}
		chunk := tmdbIDs[start:end]

		results := make([]*models.EnhancedMovie, len(chunk))
		errs := make([]error, len(chunk))

		var wg sync.WaitGroup
		for i, id := range chunk {
			wg.Add(1)
			go func(i int, id int64) {
				defer wg.Done()
				results[i], errs[i] = c.GetMovie(ctx, id, userID)
			}(i, id)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				if !opts.IgnoreErrors {
					return nil, err
				}
				c.logger.WithError(err).WithField("tmdb_id", chunk[i]).Warn("Skipping movie in batch")
				continue
			}
			enriched = append(enriched, results[i])
		}
	}

	return enriched, nil
}

// mergeFacts looks up the live proposition/vote facts and folds them into
// the movie. Fact reads are best effort: a failed lookup leaves the zero
// value rather than failing the enrichment.
func (c *EnrichController) mergeFacts(movie *models.EnhancedMovie, userID string) {
	prop, err := c.facts.ActivePropositionForMovie(movie.TMDBID)
	if err != nil {
		c.logger.WithError(err).WithField("tmdb_id", movie.TMDBID).Warn("Failed to read proposition state")
	} else if prop != nil {
		movie.IsProposed = true
		movie.ProposedBy = prop.UserID
		proposedAt := prop.CreatedAt
		movie.ProposedAt = &proposedAt
	}

	if userID != "" {
		voted, err := c.facts.HasVoted(movie.TMDBID, userID)
		if err != nil {
			c.logger.WithError(err).WithField("tmdb_id", movie.TMDBID).Warn("Failed to read vote state")
		} else {
			movie.UserHasVoted = voted
		}
	}

	count, err := c.facts.VoteCountForMovie(movie.TMDBID)
	if err != nil {
		c.logger.WithError(err).WithField("tmdb_id", movie.TMDBID).Warn("Failed to read vote count")
	} else {
		movie.CampaignVotes = count
	}
}
