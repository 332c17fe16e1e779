package models

import "time"

// Campaign is a time-boxed screening cycle that scopes propositions and votes
type Campaign struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Venue         string    `json:"venue"`
	ScreeningAt   time.Time `json:"screening_datetime"`
	ProposalLimit int       `json:"proposal_limit"`
	CreatedBy     string    `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Proposition is a user's nomination of a movie for an upcoming screening.
// A proposition stays active until it is marked shown.
type Proposition struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MovieID int64  `gorm:"column:tmdb_id;uniqueIndex:idx_proposition_movie_user" json:"tmdb_id"`
	UserID  string `gorm:"column:user_id;uniqueIndex:idx_proposition_movie_user" json:"user_id"`

	ShownAt   *time.Time `json:"shown_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Vote is one user's vote for one proposed movie. The composite primary key
// rejects double votes at the database level.
type Vote struct {
	MovieID int64  `gorm:"column:tmdb_id;primaryKey" json:"tmdb_id"`
	UserID  string `gorm:"column:user_id;primaryKey" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}
