package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/screenclub/cinevote/internal/models"
)

// VoteController handles voting on proposed movies
type VoteController struct {
	db        *models.Database
	voteLimit int
	logger    *logrus.Logger
}

// NewVoteController creates a new vote controller
func NewVoteController(db *models.Database, voteLimit int, logger *logrus.Logger) *VoteController {
	return &VoteController{
		db:        db,
		voteLimit: voteLimit,
		logger:    logger,
	}
}

// Vote casts a user's vote for a proposed movie
func (c *VoteController) Vote(ctx context.Context, movieID int64, userID string) error {
	prop, err := c.db.ActivePropositionForMovie(movieID)
	if err != nil {
		return fmt.Errorf("failed to check proposition: %w", err)
	}
	if prop == nil {
		return ErrNotProposed
	}

	spent, err := c.db.VoteCountForUser(userID)
	if err != nil {
		return fmt.Errorf("failed to count votes: %w", err)
	}
	if spent >= int64(c.voteLimit) {
		return ErrVoteLimit
	}

	if err := c.db.CreateVote(movieID, userID); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"tmdb_id": movieID,
		"user_id": userID,
	}).Info("Vote recorded")
	return nil
}

// Unvote withdraws a user's vote for a movie
func (c *VoteController) Unvote(ctx context.Context, movieID int64, userID string) error {
	if err := c.db.DeleteVote(movieID, userID); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"tmdb_id": movieID,
		"user_id": userID,
	}).Info("Vote removed")
	return nil
}
