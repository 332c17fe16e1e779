package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage bounds applied before writing join rows. Cast is stored in full;
// crew, production companies and recommendation edges are capped to keep row
// growth proportional to the catalog, not to upstream credit list sizes.
const (
	maxStoredCrew            = 4
	maxStoredCompanies       = 4
	maxStoredRecommendations = 4
)

var conflictIgnore = clause.OnConflict{DoNothing: true}

// UpsertMovie writes the core movie row, replacing an existing row for the
// same TMDB id. This must happen before any join-row write for the movie.
func (d *Database) UpsertMovie(movie *Movie) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		UpdateAll: true,
	}).Create(movie).Error
	if err != nil {
		return fmt.Errorf("failed to upsert movie %d: %w", movie.TMDBID, err)
	}
	return nil
}

// StoreGenres upserts the shared genre rows, then the movie-genre
// associations. Re-running for the same movie is idempotent.
func (d *Database) StoreGenres(movieID int64, genres []Genre) error {
	if len(genres) == 0 {
		return nil
	}

	if err := d.db.Clauses(conflictIgnore).Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to store genres: %w", err)
	}

	joins := make([]MovieGenre, 0, len(genres))
	for _, genre := range genres {
		joins = append(joins, MovieGenre{MovieID: movieID, GenreID: genre.ID})
	}
	if err := d.db.Clauses(conflictIgnore).Create(&joins).Error; err != nil {
		return fmt.Errorf("failed to store movie genres: %w", err)
	}
	return nil
}

// StoreProductionCompanies upserts the shared company rows, then the top
// associations for this movie
func (d *Database) StoreProductionCompanies(movieID int64, companies []ProductionCompany) error {
	if len(companies) == 0 {
		return nil
	}

	if err := d.db.Clauses(conflictIgnore).Create(&companies).Error; err != nil {
		return fmt.Errorf("failed to store production companies: %w", err)
	}

	capped := companies
	if len(capped) > maxStoredCompanies {
		capped = capped[:maxStoredCompanies]
	}
	joins := make([]MovieProductionCompany, 0, len(capped))
	for _, company := range capped {
		joins = append(joins, MovieProductionCompany{MovieID: movieID, CompanyID: company.ID})
	}
	if err := d.db.Clauses(conflictIgnore).Create(&joins).Error; err != nil {
		return fmt.Errorf("failed to store movie production companies: %w", err)
	}
	return nil
}

// StoreCast upserts the shared cast member rows, then the full per-movie
// cast associations with character and billing order
func (d *Database) StoreCast(movieID int64, cast []CastCredit) error {
	if len(cast) == 0 {
		return nil
	}

	members := make([]CastMember, 0, len(cast))
	joins := make([]MovieCast, 0, len(cast))
	for _, credit := range cast {
		members = append(members, CastMember{
			ID:          credit.ID,
			Name:        credit.Name,
			ProfilePath: credit.ProfilePath,
			Gender:      credit.Gender,
			Popularity:  credit.Popularity,
		})
		joins = append(joins, MovieCast{
			MovieID:   movieID,
			CastID:    credit.ID,
			Character: credit.Character,
			CastOrder: credit.CastOrder,
		})
	}

	if err := d.db.Clauses(conflictIgnore).Create(&members).Error; err != nil {
		return fmt.Errorf("failed to store cast members: %w", err)
	}
	if err := d.db.Clauses(conflictIgnore).Create(&joins).Error; err != nil {
		return fmt.Errorf("failed to store movie cast: %w", err)
	}
	return nil
}

// StoreCrew upserts the shared crew member rows, then the top per-movie crew
// associations with department and job
func (d *Database) StoreCrew(movieID int64, crew []CrewCredit) error {
	if len(crew) == 0 {
		return nil
	}

	members := make([]CrewMember, 0, len(crew))
	for _, credit := range crew {
		members = append(members, CrewMember{
			ID:          credit.ID,
			Name:        credit.Name,
			ProfilePath: credit.ProfilePath,
			Gender:      credit.Gender,
			Popularity:  credit.Popularity,
		})
	}
	if err := d.db.Clauses(conflictIgnore).Create(&members).Error; err != nil {
		return fmt.Errorf("failed to store crew members: %w", err)
	}

	capped := crew
	if len(capped) > maxStoredCrew {
		capped = capped[:maxStoredCrew]
	}
	joins := make([]MovieCrew, 0, len(capped))
	for _, credit := range capped {
		joins = append(joins, MovieCrew{
			MovieID:    movieID,
			CrewID:     credit.ID,
			Department: credit.Department,
			Job:        credit.Job,
		})
	}
	if err := d.db.Clauses(conflictIgnore).Create(&joins).Error; err != nil {
		return fmt.Errorf("failed to store movie crew: %w", err)
	}
	return nil
}

// StoreRecommendations writes minimal movie rows for the recommended movies
// (ignored if already cached in full) and the top recommendation edges
func (d *Database) StoreRecommendations(movieID int64, recommendations []Movie) error {
	if len(recommendations) == 0 {
		return nil
	}

	if err := d.db.Clauses(conflictIgnore).Create(&recommendations).Error; err != nil {
		return fmt.Errorf("failed to store recommended movies: %w", err)
	}

	capped := recommendations
	if len(capped) > maxStoredRecommendations {
		capped = capped[:maxStoredRecommendations]
	}
	edges := make([]MovieRecommendation, 0, len(capped))
	for _, rec := range capped {
		edges = append(edges, MovieRecommendation{MovieID: movieID, RecommendedID: rec.TMDBID})
	}
	if err := d.db.Clauses(conflictIgnore).Create(&edges).Error; err != nil {
		return fmt.Errorf("failed to store recommendation edges: %w", err)
	}
	return nil
}

// CachedMovie assembles the denormalized record for a movie from the
// normalized tables. Returns nil (not an error) when the movie has never
// been cached. Proposition/vote facts are not part of the cached record;
// callers merge those fresh on every read.
func (d *Database) CachedMovie(tmdbID int64) (*EnhancedMovie, error) {
	var movie Movie
	err := d.db.First(&movie, "tmdb_id = ?", tmdbID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached movie %d: %w", tmdbID, err)
	}

	enhanced := &EnhancedMovie{Movie: movie}

	err = d.db.Table("movie_genres").
		Select("genres.*").
		Joins("JOIN genres ON genres.id = movie_genres.genre_id").
		Where("movie_genres.movie_id = ?", tmdbID).
		Scan(&enhanced.Genres).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read cached genres: %w", err)
	}

	err = d.db.Table("movie_cast").
		Select("cast_members.id, cast_members.name, cast_members.profile_path, cast_members.gender, cast_members.popularity, movie_cast.character, movie_cast.cast_order").
		Joins("JOIN cast_members ON cast_members.id = movie_cast.cast_id").
		Where("movie_cast.movie_id = ?", tmdbID).
		Order("movie_cast.cast_order ASC").
		Scan(&enhanced.Cast).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read cached cast: %w", err)
	}

	err = d.db.Table("movie_crew").
		Select("crew_members.id, crew_members.name, crew_members.profile_path, crew_members.gender, crew_members.popularity, movie_crew.department, movie_crew.job").
		Joins("JOIN crew_members ON crew_members.id = movie_crew.crew_id").
		Where("movie_crew.movie_id = ?", tmdbID).
		Scan(&enhanced.Crew).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read cached crew: %w", err)
	}

	err = d.db.Table("movie_production_companies").
		Select("production_companies.*").
		Joins("JOIN production_companies ON production_companies.id = movie_production_companies.company_id").
		Where("movie_production_companies.movie_id = ?", tmdbID).
		Scan(&enhanced.ProductionCompanies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read cached production companies: %w", err)
	}

	err = d.db.Table("movie_recommendations").
		Select("movies.*").
		Joins("JOIN movies ON movies.tmdb_id = movie_recommendations.recommended_movie_id").
		Where("movie_recommendations.movie_id = ?", tmdbID).
		Scan(&enhanced.Recommendations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read cached recommendations: %w", err)
	}

	enhanced.Director = DeriveDirector(enhanced.Crew)
	enhanced.Writers = DeriveWriters(enhanced.Crew)

	return enhanced, nil
}

// IncompleteMovieIDs returns cached movies whose cast or crew associations
// are missing, i.e. earlier enrichments that only partially persisted
func (d *Database) IncompleteMovieIDs(limit int) ([]int64, error) {
	var ids []int64
	err := d.db.Table("movies").
		Select("movies.tmdb_id").
		Where("NOT EXISTS (SELECT 1 FROM movie_cast WHERE movie_cast.movie_id = movies.tmdb_id)").
		Or("NOT EXISTS (SELECT 1 FROM movie_crew WHERE movie_crew.movie_id = movies.tmdb_id)").
		Limit(limit).
		Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete movies: %w", err)
	}
	return ids, nil
}

// CacheStats summarizes the state of the local cache
type CacheStats struct {
	Movies       int64 `json:"movies"`
	Incomplete   int64 `json:"incomplete"`
	Propositions int64 `json:"propositions"`
	Votes        int64 `json:"votes"`
}

// Stats counts cached rows for the status endpoint
func (d *Database) Stats() (*CacheStats, error) {
	stats := &CacheStats{}
	if err := d.db.Model(&Movie{}).Count(&stats.Movies).Error; err != nil {
		return nil, err
	}
	incomplete, err := d.IncompleteMovieIDs(int(stats.Movies) + 1)
	if err != nil {
		return nil, err
	}
	stats.Incomplete = int64(len(incomplete))
	if err := d.db.Model(&Proposition{}).Where("shown_at IS NULL").Count(&stats.Propositions).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&Vote{}).Count(&stats.Votes).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
