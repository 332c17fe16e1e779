package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
)

// PropositionController handles movie propositions for the current campaign
type PropositionController struct {
	db            *models.Database
	enrich        *EnrichController
	proposalLimit int
	logger        *logrus.Logger
}

// NewPropositionController creates a new proposition controller
func NewPropositionController(db *models.Database, enrich *EnrichController, proposalLimit int, logger *logrus.Logger) *PropositionController {
	return &PropositionController{
		db:            db,
		enrich:        enrich,
		proposalLimit: proposalLimit,
		logger:        logger,
	}
}

// limit returns the campaign's proposal limit, falling back to the
// configured default when no campaign is open or it sets none
func (c *PropositionController) limit() int {
	campaign, err := c.db.CurrentCampaign()
	if err != nil {
		if !errors.Is(err, models.ErrNoCampaign) {
			c.logger.WithError(err).Warn("Failed to read current campaign")
		}
		return c.proposalLimit
	}
	if campaign.ProposalLimit > 0 {
		return campaign.ProposalLimit
	}
	return c.proposalLimit
}

// Propose nominates a movie for the upcoming screening
func (c *PropositionController) Propose(ctx context.Context, movieID int64, userID string) error {
	open, err := c.db.ActivePropositionsByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to count propositions: %w", err)
	}
	if len(open) >= c.limit() {
		return ErrProposalLimit
	}

	if err := c.db.CreateProposition(movieID, userID); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return ErrAlreadyProposed
		}
		return fmt.Errorf("failed to create proposition: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"tmdb_id": movieID,
		"user_id": userID,
	}).Info("Movie proposed")

	// Warm the cache so the proposition can be rendered without another
	// page-load round trip. Enrichment failure does not undo the proposition.
	if _, err := c.enrich.GetMovie(ctx, movieID, userID); err != nil {
		c.logger.WithError(err).WithField("tmdb_id", movieID).Warn("Failed to enrich proposed movie")
	}

	return nil
}

// Remove withdraws a user's own proposition
func (c *PropositionController) Remove(ctx context.Context, movieID int64, userID string) error {
	if err := c.db.DeleteProposition(movieID, userID); err != nil {
		return fmt.Errorf("failed to remove proposition: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"tmdb_id": movieID,
		"user_id": userID,
	}).Info("Proposition removed")
	return nil
}

// Active returns the enhanced movies for all open propositions, oldest first.
// Movies that fail enrichment are dropped so one bad id cannot blank the list.
func (c *PropositionController) Active(ctx context.Context, userID string) ([]*models.EnhancedMovie, error) {
	props, err := c.db.ActivePropositions()
	if err != nil {
		return nil, fmt.Errorf("failed to list propositions: %w", err)
	}

	ids := make([]int64, 0, len(props))
	for _, prop := range props {
		ids = append(ids, prop.MovieID)
	}

	return c.enrich.GetMovies(ctx, ids, userID, BatchOptions{IgnoreErrors: true})
}

// MarkShown closes propositions after their screening
func (c *PropositionController) MarkShown(ctx context.Context, movieIDs []int64) error {
	if err := c.db.MarkPropositionsShown(movieIDs, time.Now()); err != nil {
		return fmt.Errorf("failed to mark propositions shown: %w", err)
	}

	c.logger.WithField("count", len(movieIDs)).Info("Propositions marked shown")
	return nil
}
