package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/controllers"
	"github.com/screenclub/cinevote/internal/models"
	"github.com/screenclub/cinevote/internal/services/tmdb"
)

// How many incomplete cache entries one refresh run will re-enrich. Keeps a
// large backlog from burning the whole rate-limit window in one job.
const refreshBatchSize = 20

// Scheduler manages background cache maintenance
type Scheduler struct {
	cron       *cron.Cron
	db         *models.Database
	enrichCtrl *controllers.EnrichController
	logger     *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(db *models.Database, enrichCtrl *controllers.EnrichController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		db:         db,
		enrichCtrl: enrichCtrl,
		logger:     logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 6 hours: re-enrich cached movies whose cast or crew never made
	// it to disk (partial writes from earlier enrichments)
	_, err := s.cron.AddFunc("0 */6 * * *", func() {
		s.runRefreshIncomplete()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	// Every hour: log cache and vote counts
	_, err = s.cron.AddFunc("0 * * * *", func() {
		s.runStats()
	})
	if err != nil {
		return fmt.Errorf("failed to add stats job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial refresh pass immediately
	go s.runRefreshIncomplete()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRefreshIncomplete re-enriches movies failing the cache completeness
// check. Transient upstream failures are retried with exponential backoff;
// a movie TMDB no longer knows is skipped outright.
func (s *Scheduler) runRefreshIncomplete() {
	s.logger.Info("Running incomplete cache refresh")
	ctx := context.Background()

	ids, err := s.db.IncompleteMovieIDs(refreshBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list incomplete movies")
		return
	}

	if len(ids) == 0 {
		s.logger.Debug("No incomplete movies to refresh")
		return
	}

	s.logger.WithField("count", len(ids)).Info("Refreshing incomplete movies")

	refreshed := 0
	for _, id := range ids {
		policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)

		err := backoff.Retry(func() error {
			_, err := s.enrichCtrl.GetMovie(ctx, id, "")
			if errors.Is(err, tmdb.ErrNotFound) {
				// Gone upstream, retrying will not help
				return backoff.Permanent(err)
			}
			return err
		}, policy)

		if err != nil {
			s.logger.WithError(err).WithField("tmdb_id", id).Warn("Failed to refresh movie")
			continue
		}
		refreshed++
	}

	s.logger.WithFields(logrus.Fields{
		"refreshed": refreshed,
		"total":     len(ids),
	}).Info("Refresh job completed")
}

// runStats logs cache state for operational visibility
func (s *Scheduler) runStats() {
	stats, err := s.db.Stats()
	if err != nil {
		s.logger.WithError(err).Error("Failed to collect cache stats")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"movies":       stats.Movies,
		"incomplete":   stats.Incomplete,
		"propositions": stats.Propositions,
		"votes":        stats.Votes,
	}).Info("Cache stats")
}
