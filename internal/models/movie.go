package models

import "time"

// Movie holds the core catalog fields cached from TMDB.
// The TMDB id is the primary key; rows are only ever re-upserted, never deleted.
type Movie struct {
	TMDBID           int64   `gorm:"column:tmdb_id;primaryKey" json:"tmdb_id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	Runtime          int     `json:"runtime"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`

	CachedAt    time.Time `json:"cached_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Genre is a catalog-assigned genre, shared across movies
type Genre struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// CastMember is a person appearing in front of the camera, deduplicated globally
type CastMember struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Gender      int     `json:"gender"`
	Popularity  float64 `json:"popularity"`
}

// CrewMember is a person working behind the camera, deduplicated globally
type CrewMember struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Gender      int     `json:"gender"`
	Popularity  float64 `json:"popularity"`
}

// ProductionCompany is a studio or production house, deduplicated globally
type ProductionCompany struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// MovieGenre associates a movie with a genre
type MovieGenre struct {
	MovieID int64 `gorm:"column:movie_id;primaryKey"`
	GenreID int64 `gorm:"column:genre_id;primaryKey"`
}

// MovieCast associates a movie with a cast member. Character and billing
// order are per-movie attributes and must not be merged across movies.
type MovieCast struct {
	MovieID   int64  `gorm:"column:movie_id;primaryKey"`
	CastID    int64  `gorm:"column:cast_id;primaryKey"`
	Character string `gorm:"column:character"`
	CastOrder int    `gorm:"column:cast_order"`
}

// TableName overrides the default pluralization
func (MovieCast) TableName() string { return "movie_cast" }

// MovieCrew associates a movie with a crew member and their job on it
type MovieCrew struct {
	MovieID    int64  `gorm:"column:movie_id;primaryKey"`
	CrewID     int64  `gorm:"column:crew_id;primaryKey"`
	Department string `gorm:"column:department"`
	Job        string `gorm:"column:job"`
}

// TableName overrides the default pluralization
func (MovieCrew) TableName() string { return "movie_crew" }

// MovieProductionCompany associates a movie with a production company
type MovieProductionCompany struct {
	MovieID   int64 `gorm:"column:movie_id;primaryKey"`
	CompanyID int64 `gorm:"column:company_id;primaryKey"`
}

// MovieRecommendation is a directed edge from a movie to a recommended movie
type MovieRecommendation struct {
	MovieID       int64 `gorm:"column:movie_id;primaryKey"`
	RecommendedID int64 `gorm:"column:recommended_movie_id;primaryKey"`
}

// CastCredit is a cast member joined with their per-movie role
type CastCredit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Gender      int     `json:"gender"`
	Popularity  float64 `json:"popularity"`
	Character   string  `json:"character"`
	CastOrder   int     `json:"order"`
}

// CrewCredit is a crew member joined with their per-movie job
type CrewCredit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath string  `json:"profile_path"`
	Gender      int     `json:"gender"`
	Popularity  float64 `json:"popularity"`
	Department  string  `json:"department"`
	Job         string  `json:"job"`
}

// EnhancedMovie is the fully denormalized movie record: core fields, resolved
// sub-entities, derived director/writers and live proposition/vote facts
type EnhancedMovie struct {
	Movie

	Genres              []Genre             `json:"genres"`
	Cast                []CastCredit        `json:"cast"`
	Crew                []CrewCredit        `json:"crew"`
	Director            *CrewCredit         `json:"director"`
	Writers             []CrewCredit        `json:"writers"`
	Recommendations     []Movie             `json:"recommendations"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`

	IsProposed    bool       `json:"is_proposed"`
	ProposedBy    string     `json:"proposed_by,omitempty"`
	ProposedAt    *time.Time `json:"proposed_at,omitempty"`
	UserHasVoted  bool       `json:"user_has_voted"`
	CampaignVotes int64      `json:"campaign_votes"`

	FromCache bool `json:"from_cache"`
}

const jobDirector = "Director"

var writerJobs = map[string]bool{
	"Screenplay": true,
	"Writer":     true,
	"Story":      true,
}

// DeriveDirector returns the first crew credit whose job is "Director", or nil
func DeriveDirector(crew []CrewCredit) *CrewCredit {
	for i := range crew {
		if crew[i].Job == jobDirector {
			return &crew[i]
		}
	}
	return nil
}

// DeriveWriters returns the crew credits with a writing job (Screenplay, Writer, Story)
func DeriveWriters(crew []CrewCredit) []CrewCredit {
	var writers []CrewCredit
	for _, c := range crew {
		if writerJobs[c.Job] {
			writers = append(writers, c)
		}
	}
	return writers
}
