package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDuplicate is returned when a unique key is violated (e.g. proposing or
// voting for the same movie twice)
var ErrDuplicate = errors.New("duplicate entry")

// ErrNoCampaign is returned when no campaign has started yet
var ErrNoCampaign = errors.New("no current campaign")

// Database wraps the gorm connection
type Database struct {
	db *gorm.DB
}

// NewDatabase opens the sqlite database and migrates the schema
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&Movie{},
		&Genre{},
		&CastMember{},
		&CrewMember{},
		&ProductionCompany{},
		&MovieGenre{},
		&MovieCast{},
		&MovieCrew{},
		&MovieProductionCompany{},
		&MovieRecommendation{},
		&Campaign{},
		&Proposition{},
		&Vote{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Campaign operations

// CreateCampaign creates a new screening campaign
func (d *Database) CreateCampaign(campaign *Campaign) error {
	return d.db.Create(campaign).Error
}

// CurrentCampaign returns the most recently started campaign
func (d *Database) CurrentCampaign() (*Campaign, error) {
	var campaign Campaign
	err := d.db.
		Where("start_date <= ?", time.Now()).
		Order("start_date DESC").
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCampaign
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current campaign: %w", err)
	}
	return &campaign, nil
}

// Proposition operations

// CreateProposition records a user's nomination of a movie
func (d *Database) CreateProposition(movieID int64, userID string) error {
	prop := Proposition{MovieID: movieID, UserID: userID}
	err := d.db.Create(&prop).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// DeleteProposition removes a user's own proposition for a movie
func (d *Database) DeleteProposition(movieID int64, userID string) error {
	return d.db.
		Where("tmdb_id = ? AND user_id = ?", movieID, userID).
		Delete(&Proposition{}).Error
}

// ActivePropositions returns all propositions not yet shown
func (d *Database) ActivePropositions() ([]*Proposition, error) {
	var props []*Proposition
	err := d.db.
		Where("shown_at IS NULL").
		Order("created_at ASC").
		Find(&props).Error
	return props, err
}

// ActivePropositionsByUser returns a user's open propositions
func (d *Database) ActivePropositionsByUser(userID string) ([]*Proposition, error) {
	var props []*Proposition
	err := d.db.
		Where("user_id = ? AND shown_at IS NULL", userID).
		Find(&props).Error
	return props, err
}

// ActivePropositionForMovie returns the open proposition for a movie, or nil
func (d *Database) ActivePropositionForMovie(movieID int64) (*Proposition, error) {
	var prop Proposition
	err := d.db.
		Where("tmdb_id = ? AND shown_at IS NULL", movieID).
		First(&prop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// MarkPropositionsShown closes the given propositions after a screening
func (d *Database) MarkPropositionsShown(movieIDs []int64, shownAt time.Time) error {
	if len(movieIDs) == 0 {
		return nil
	}
	return d.db.Model(&Proposition{}).
		Where("tmdb_id IN ? AND shown_at IS NULL", movieIDs).
		Update("shown_at", shownAt).Error
}

// Vote operations

// CreateVote records a user's vote for a movie
func (d *Database) CreateVote(movieID int64, userID string) error {
	vote := Vote{MovieID: movieID, UserID: userID}
	err := d.db.Create(&vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// DeleteVote removes a user's vote for a movie
func (d *Database) DeleteVote(movieID int64, userID string) error {
	return d.db.
		Where("tmdb_id = ? AND user_id = ?", movieID, userID).
		Delete(&Vote{}).Error
}

// HasVoted reports whether the user has voted for the movie
func (d *Database) HasVoted(movieID int64, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := d.db.Model(&Vote{}).
		Where("tmdb_id = ? AND user_id = ?", movieID, userID).
		Count(&count).Error
	return count > 0, err
}

// VoteCountForMovie returns the number of votes a movie has received
func (d *Database) VoteCountForMovie(movieID int64) (int64, error) {
	var count int64
	err := d.db.Model(&Vote{}).
		Where("tmdb_id = ?", movieID).
		Count(&count).Error
	return count, err
}

// VoteCountForUser returns the number of votes a user has cast
func (d *Database) VoteCountForUser(userID string) (int64, error) {
	var count int64
	err := d.db.Model(&Vote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
